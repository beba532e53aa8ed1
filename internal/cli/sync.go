package cli

import (
	"context"
	"fmt"
)

// Sync runs one drain pass immediately and prints its outcome.
func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Sign in first; local changes are kept and synced later.")
		return nil
	}

	stats, err := a.manager.ProcessQueue(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Sync failed:", err)
		return err
	}
	if stats.Processed == 0 {
		fmt.Fprintln(a.out, "Nothing to sync.")
		return nil
	}
	fmt.Fprintf(a.out, "Synced %d/%d operation(s)", stats.Succeeded, stats.Processed)
	if stats.Failed > 0 {
		fmt.Fprintf(a.out, ", %d failed (will retry)", stats.Failed)
	}
	if stats.Dropped > 0 {
		fmt.Fprintf(a.out, ", %d dropped", stats.Dropped)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Pending prints the number of queued operations.
func (a *App) Pending(ctx context.Context) error {
	n := a.manager.PendingCount(ctx)
	switch n {
	case 0:
		fmt.Fprintln(a.out, "All changes are synced.")
	case 1:
		fmt.Fprintln(a.out, "1 change waiting to sync.")
	default:
		fmt.Fprintf(a.out, "%d changes waiting to sync.\n", n)
	}
	return nil
}

// History prints recent drain passes, newest last, including dropped
// operations.
func (a *App) History(ctx context.Context) error {
	records := a.store.GetSyncHistory(ctx)
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No sync history.")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(a.out, "%s  processed %d, ok %d, failed %d, skipped %d\n",
			formatMillis(rec.Timestamp), rec.Processed, rec.Succeeded, rec.Failed, rec.Skipped)
		for _, op := range rec.Dropped {
			fmt.Fprintf(a.out, "  dropped: %s %s %s (%s)\n", op.Type, op.Action, shortID(op.EntityID()), op.LastError)
		}
	}
	return nil
}
