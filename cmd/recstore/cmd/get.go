package cmd

import (
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id> [field]",
	Short: "Print a record or one of its fields",
	Long: `Print a record as sorted field=value lines, or only the value of one field.

Examples:
  recstore get gb
  recstore get gb Capital`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cfg.DataFile, cfg.Codec.Options())
		if err != nil {
			return err
		}

		rec, err := st.Get(args[0])
		if err != nil {
			return err
		}

		if len(args) == 2 {
			value, err := rec.Get(args[1])
			if err != nil {
				return err
			}
			cmd.Println(value)
			return nil
		}

		for _, name := range rec.FieldNames() {
			value, _ := rec.Get(name)
			cmd.Printf("%s=%s\n", name, value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
