package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antonpav/pad/internal/models"
)

func (a *App) findTask(arg string) (models.Task, error) {
	var match models.Task
	found := 0
	for _, t := range a.tasks.List() {
		if t.ID == arg {
			return t, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			match = t
			found++
		}
	}
	switch found {
	case 0:
		return models.Task{}, fmt.Errorf("no task matches %q", arg)
	case 1:
		return match, nil
	default:
		return models.Task{}, fmt.Errorf("%q is ambiguous, use a longer id", arg)
	}
}

// Task lists the task partitions or dispatches the subcommands.
func (a *App) Task(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listTasks()
	}

	usage := func() error {
		fmt.Fprintln(a.out, "Usage: task [add <title>|done <id>|up <id>|down <id>|del <id>]")
		return nil
	}

	if args[0] == "add" {
		title := strings.Join(args[1:], " ")
		if title == "" {
			return usage()
		}
		t, err := a.tasks.Create(ctx, models.Task{Title: title})
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
		fmt.Fprintln(a.out, "Added task", shortID(t.ID))
		return nil
	}

	if len(args) < 2 {
		return usage()
	}
	t, err := a.findTask(args[1])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	switch args[0] {
	case "done":
		if _, err := a.tasks.Complete(ctx, t.ID); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
		fmt.Fprintln(a.out, "Done:", t.Title)
	case "up":
		err = a.tasks.MoveUp(ctx, t.ID)
	case "down":
		err = a.tasks.MoveDown(ctx, t.ID)
	case "del", "delete":
		if err := a.tasks.Delete(ctx, t.ID); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
		fmt.Fprintln(a.out, "Deleted task", shortID(t.ID))
	default:
		return usage()
	}
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

func (a *App) listTasks() error {
	now := time.Now().UnixMilli()

	active := a.tasks.Active(now)
	future := a.tasks.Future(now)
	completed := a.tasks.Completed()
	if len(active)+len(future)+len(completed) == 0 {
		fmt.Fprintln(a.out, "No tasks.")
		return nil
	}

	if len(active) > 0 {
		fmt.Fprintln(a.out, "Active:")
		for i, t := range active {
			fmt.Fprintf(a.out, "  %2d. %s  %s\n", i+1, shortID(t.ID), t.Title)
		}
	}
	if len(future) > 0 {
		fmt.Fprintln(a.out, "Upcoming:")
		for _, t := range future {
			fmt.Fprintf(a.out, "      %s  %s (starts %s)\n", shortID(t.ID), t.Title, formatMillis(t.StartDate))
		}
	}
	if len(completed) > 0 {
		fmt.Fprintln(a.out, "Completed:")
		for _, t := range completed {
			fmt.Fprintf(a.out, "      %s  %s (%s)\n", shortID(t.ID), t.Title, formatMillis(t.CompletedAt))
		}
	}
	return nil
}
