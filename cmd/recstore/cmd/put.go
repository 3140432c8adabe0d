package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put [id] <field=value>...",
	Short: "Insert a record",
	Long: `Insert a record into the record file.

The first record defines the schema. Every later record must carry exactly
the same field names.

Examples:
  recstore put gb Country="Great Britain" Capital=London
  recstore put --generate-id Country=France Capital=Paris`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		generateID, _ := cmd.Flags().GetBool("generate-id")

		var id string
		fieldArgs := args
		if !generateID {
			id = args[0]
			fieldArgs = args[1:]
		}
		if len(fieldArgs) == 0 {
			return fmt.Errorf("at least one field=value is required")
		}

		rec, err := parseFields(fieldArgs)
		if err != nil {
			return err
		}

		opts := cfg.Codec.Options()
		st, err := openStore(cfg.DataFile, opts)
		if err != nil {
			return err
		}

		if generateID {
			id, err = st.InsertGenerated(rec)
		} else {
			err = st.Insert(id, rec)
		}
		if err != nil {
			return err
		}

		if err := saveStore(st, cfg.DataFile, opts); err != nil {
			return err
		}

		cmd.Printf("Successfully put record '%s'\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().Bool("generate-id", false, "Generate a KSUID for the record instead of taking it from the first argument")
}
