package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/recstore/pkg/storage"
	"github.com/ssargent/recstore/pkg/store"
)

// snapshotCmd groups the snapshot archive commands
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage snapshots of the record file",
	Long: `Snapshots are copies of the record file kept in an archive under the
configured snapshot directory. Each snapshot is identified by a KSUID.`,
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the current record file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.Codec.Options()
		st, err := openStore(cfg.DataFile, opts)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := st.Encode(&buf, opts); err != nil {
			return fmt.Errorf("failed to encode store: %w", err)
		}

		return withSnapshots(func(archive *storage.SnapshotStorage) error {
			id, err := archive.Create(buf.Bytes())
			if err != nil {
				return err
			}
			logger.Info("snapshot created", "id", id.String(), "records", st.Len())
			cmd.Printf("Created snapshot %s (%d records)\n", id, st.Len())
			return nil
		})
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSnapshots(func(archive *storage.SnapshotStorage) error {
			infos, err := archive.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				cmd.Println("No snapshots")
				return nil
			}
			for _, info := range infos {
				cmd.Printf("%s  %s  %d bytes\n", info.ID, info.CreatedAt.Format(time.RFC3339), info.Size)
			}
			return nil
		})
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace the record file with a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
		}

		return withSnapshots(func(archive *storage.SnapshotStorage) error {
			data, err := archive.Read(id)
			if err != nil {
				return err
			}

			opts := cfg.Codec.Options()
			st, err := store.Decode(bytes.NewReader(data), opts)
			if err != nil {
				return fmt.Errorf("snapshot %s is not a valid record file: %w", id, err)
			}
			if err := saveStore(st, cfg.DataFile, opts); err != nil {
				return err
			}

			logger.Info("snapshot restored", "id", id.String(), "path", cfg.DataFile)
			cmd.Printf("Restored snapshot %s to %s (%d records)\n", id, cfg.DataFile, st.Len())
			return nil
		})
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
		}

		return withSnapshots(func(archive *storage.SnapshotStorage) error {
			if err := archive.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Deleted snapshot %s\n", id)
			return nil
		})
	},
}

// withSnapshots opens the snapshot archive for the duration of fn
func withSnapshots(fn func(*storage.SnapshotStorage) error) error {
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}
	archive, err := container.OpenSnapshots(cfg.SnapshotDir)
	if err != nil {
		return fmt.Errorf("failed to open snapshot archive %s: %w", cfg.SnapshotDir, err)
	}
	defer func() {
		if err := archive.Close(); err != nil {
			logger.Warn("failed to close snapshot archive", "error", err)
		}
	}()
	return fn(archive)
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
}
