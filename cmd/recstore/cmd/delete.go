package cmd

import (
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Remove records",
	Long: `Remove records from the record file. Missing ids are ignored.

Example:
  recstore delete gb fr`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.Codec.Options()
		st, err := openStore(cfg.DataFile, opts)
		if err != nil {
			return err
		}

		before := st.Len()
		st.RemoveAll(args)

		if err := saveStore(st, cfg.DataFile, opts); err != nil {
			return err
		}

		cmd.Printf("Removed %d record(s)\n", before-st.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
