package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/antonpav/pad/internal/models"
)

// findFolder resolves a folder by exact name, full id or unique id prefix.
func (a *App) findFolder(arg string) (models.Folder, error) {
	var match models.Folder
	found := 0
	for _, f := range a.folders.List() {
		if f.ID == arg || f.Name == arg {
			return f, nil
		}
		if strings.HasPrefix(f.ID, arg) {
			match = f
			found++
		}
	}
	switch found {
	case 0:
		return models.Folder{}, fmt.Errorf("no folder matches %q", arg)
	case 1:
		return match, nil
	default:
		return models.Folder{}, fmt.Errorf("%q is ambiguous, use a longer id", arg)
	}
}

// Folder lists folders or dispatches the add/del subcommands.
func (a *App) Folder(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listFolders()
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: folder add <name> [parent]")
			return nil
		}
		name := args[1]
		parentID := ""
		if len(args) > 2 {
			parent, err := a.findFolder(strings.Join(args[2:], " "))
			if err != nil {
				fmt.Fprintln(a.out, "Error:", err)
				return err
			}
			parentID = parent.ID
		}
		f, err := a.folders.Create(ctx, name, parentID, "")
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
		fmt.Fprintln(a.out, "Created folder", f.Name, shortID(f.ID))
		return nil

	case "del", "delete":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "Usage: folder del <id>")
			return nil
		}
		f, err := a.findFolder(args[1])
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
		if err := a.folders.Delete(ctx, f.ID); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
		fmt.Fprintln(a.out, "Deleted folder", f.Name, "(entries kept, unfiled)")
		return nil

	default:
		fmt.Fprintln(a.out, "Usage: folder [add <name> [parent]|del <id>]")
		return nil
	}
}

func (a *App) listFolders() error {
	folders := a.folders.List()
	if len(folders) == 0 {
		fmt.Fprintln(a.out, "No folders.")
		return nil
	}
	for _, f := range folders {
		if f.ParentID != "" {
			continue
		}
		fmt.Fprintf(a.out, "%s  %s (%d entries)\n", shortID(f.ID), f.Name, len(a.diaries.ByFolder(f.ID)))
		for _, child := range folders {
			if child.ParentID == f.ID {
				fmt.Fprintf(a.out, "  %s  %s (%d entries)\n", shortID(child.ID), child.Name, len(a.diaries.ByFolder(child.ID)))
			}
		}
	}
	return nil
}
