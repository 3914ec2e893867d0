package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fadebatch/internal/config"
	"fadebatch/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the media queue",
	}

	queueCmd.AddCommand(newQueueAddCommand(ctx))
	queueCmd.AddCommand(newQueueAddFolderCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Add media files to the queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, store, err := ctx.loadQueue(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			added, skipped := 0, 0
			for _, arg := range args {
				path, err := resolveMediaPath(arg)
				if err != nil {
					fmt.Fprintf(out, "Skipped %s: %v\n", arg, err)
					skipped++
					continue
				}
				if !q.Add(path) {
					fmt.Fprintf(out, "Skipped %s: %s\n", path, skipReason(q, path))
					skipped++
					continue
				}
				added++
			}

			if added > 0 {
				if err := store.Save(cmd.Context(), q); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "Added %d file(s), skipped %d (queue has %d)\n", added, skipped, q.Len())
			return nil
		},
	}
}

func newQueueAddFolderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-folder <dir>",
		Short: "Add every matching file directly inside a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			q, store, err := ctx.loadQueue(cmd)
			if err != nil {
				return err
			}
			paths, err := queue.ScanFolder(dir, q.Allow())
			if err != nil {
				return err
			}
			added := q.AddMany(paths)
			if added > 0 {
				if err := store.Save(cmd.Context(), q); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d matching file(s) from %s (queue has %d)\n", added, len(paths), dir, q.Len())
			return nil
		},
	}
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued files in run order",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _, err := ctx.loadQueue(cmd)
			if err != nil {
				return err
			}
			items := q.Active()
			if jsonOutput {
				return writeJSON(cmd, buildQueueListJSON(items))
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}
			table := renderTable(cmd.OutOrStdout(),
				[]string{"#", "File", "Directory", "Last outcome", "Added"},
				buildQueueListRows(items, timeNow()),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index|path>...",
		Short: "Remove files from the queue by list index or path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, store, err := ctx.loadQueue(cmd)
			if err != nil {
				return err
			}
			targets, err := resolveQueueTargets(q.Active(), args)
			if err != nil {
				return err
			}
			removed := q.Remove(targets...)
			if removed > 0 {
				if err := store.Save(cmd.Context(), q); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d file(s) (queue has %d)\n", removed, q.Len())
			return nil
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every file from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d file(s)\n", removed)
			return nil
		},
	}
}

func resolveMediaPath(arg string) (string, error) {
	path, err := config.ExpandPath(strings.TrimSpace(arg))
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.New("file does not exist")
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", errors.New("not a regular file")
	}
	return path, nil
}

func skipReason(q *queue.Queue, path string) string {
	if q.Contains(path) {
		return "already queued"
	}
	ext := queue.Extension(path)
	if ext == "" {
		return "no file extension"
	}
	return fmt.Sprintf("extension %q is not allowed", ext)
}

// resolveQueueTargets maps 1-based list indexes and paths to queue paths.
func resolveQueueTargets(items []queue.Item, args []string) ([]string, error) {
	targets := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if index, err := strconv.Atoi(arg); err == nil {
			if index < 1 || index > len(items) {
				return nil, fmt.Errorf("queue index %d out of range (queue has %d)", index, len(items))
			}
			targets = append(targets, items[index-1].Path())
			continue
		}
		path, err := config.ExpandPath(arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, path)
	}
	return targets, nil
}
