package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/recstore/pkg/store"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List record ids in sorted order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cfg.DataFile, cfg.Codec.Options())
		if err != nil {
			return err
		}
		for _, id := range st.RecordIDs() {
			cmd.Println(id)
		}
		return nil
	},
}

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the field names shared by every record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cfg.DataFile, cfg.Codec.Options())
		if err != nil {
			return err
		}
		schema := st.Schema()
		if len(schema) == 0 {
			cmd.Println("(empty store, no schema)")
			return nil
		}
		cmd.Println(strings.Join(schema, "\n"))
		return nil
	},
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check that a record file parses",
	Long: `Parse a record file and report how many records it holds, or the first
error found. Defaults to the configured record file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.DataFile
		if len(args) == 1 {
			path = args[0]
		}

		st, err := store.LoadWithOptions(path, cfg.Codec.Options())
		if err != nil {
			return err
		}

		stats := st.Stats()
		cmd.Printf("%s: %d record(s), %d field(s)\n", path, stats.Records, stats.Fields)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(validateCmd)
}
