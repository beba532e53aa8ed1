package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// Import loads an export file into the current namespace. The optional
// "replace" argument overwrites the stored collections instead of merging.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: import <file> [replace]")
		return nil
	}
	replace := len(args) > 1 && args[1] == "replace"

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if err := a.store.ImportAll(ctx, data, replace); err != nil {
		fmt.Fprintln(a.out, "Import failed:", err)
		return err
	}

	a.diaries.Reload(ctx)
	a.folders.Reload(ctx)
	a.tasks.Reload(ctx)
	fmt.Fprintln(a.out, "Imported", args[0])
	return nil
}

// Export writes the current namespace's collections to a JSON file.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: export <file>")
		return nil
	}
	data, err := a.store.ExportAll(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	fmt.Fprintln(a.out, "Exported to", args[0])
	return nil
}

// Backups lists the snapshot ring, or restores one with "restore <n>".
// Restoring replaces the diary and folder collections with the snapshot.
// The replaced state was itself snapshotted when it was last saved, so a
// restore can be undone from the same list.
func (a *App) Backups(ctx context.Context, args []string) error {
	backups := a.store.GetBackups(ctx)

	if len(args) == 0 {
		if len(backups) == 0 {
			fmt.Fprintln(a.out, "No backups yet.")
			return nil
		}
		for i, b := range backups {
			fmt.Fprintf(a.out, "%2d. %s  %d entries, %d folders\n",
				i+1, formatMillis(b.Timestamp), len(b.Diaries), len(b.Folders))
		}
		return nil
	}

	if args[0] != "restore" || len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: backups [restore <n>]")
		return nil
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 || n > len(backups) {
		fmt.Fprintln(a.out, "No such backup.")
		return nil
	}
	b := backups[n-1]

	if err := a.store.SaveDiaries(ctx, b.Diaries); err != nil {
		fmt.Fprintln(a.out, "Restore failed:", err)
		return err
	}
	if err := a.store.SaveFolders(ctx, b.Folders); err != nil {
		fmt.Fprintln(a.out, "Restore failed:", err)
		return err
	}
	a.diaries.Reload(ctx)
	a.folders.Reload(ctx)
	fmt.Fprintln(a.out, "Restored backup from", formatMillis(b.Timestamp))
	return nil
}
