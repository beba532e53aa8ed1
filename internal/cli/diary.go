package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/antonpav/pad/internal/models"
	"github.com/antonpav/pad/internal/store"
)

func diaryContentPatch(content string) store.DiaryPatch {
	return store.DiaryPatch{Content: &content}
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findDiary resolves a full id or a unique prefix.
func (a *App) findDiary(arg string) (models.Diary, error) {
	var match models.Diary
	found := 0
	for _, d := range a.diaries.List() {
		if d.ID == arg {
			return d, nil
		}
		if strings.HasPrefix(d.ID, arg) {
			match = d
			found++
		}
	}
	switch found {
	case 0:
		return models.Diary{}, fmt.Errorf("no entry matches %q", arg)
	case 1:
		return match, nil
	default:
		return models.Diary{}, fmt.Errorf("%q is ambiguous, use a longer id", arg)
	}
}

// List prints the diary collection, optionally filtered by a query over
// titles, content and tags.
func (a *App) List(ctx context.Context, args []string) error {
	items := a.diaries.Search(strings.Join(args, " "))
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No entries.")
		return nil
	}
	for _, d := range items {
		line := fmt.Sprintf("%s  %-30s  %s", shortID(d.ID), d.Title, formatMillis(d.UpdatedAt))
		if len(d.Tags) > 0 {
			line += "  [" + strings.Join(d.Tags, ", ") + "]"
		}
		if d.FolderID != "" {
			if f, ok := a.folders.Get(d.FolderID); ok {
				line += "  /" + f.Name
			}
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// Add creates an entry; the title comes from the arguments or a prompt,
// the body from a multiline prompt.
func (a *App) Add(ctx context.Context, args []string) error {
	title := strings.Join(args, " ")
	if title == "" {
		var err error
		title, err = GetSimpleText(a.reader, "Title", a.out)
		if err != nil {
			return err
		}
	}
	if title == "" {
		fmt.Fprintln(a.out, "A title is required.")
		return nil
	}

	d, err := a.diaries.Create(ctx, title)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		if _, err := a.diaries.Update(ctx, d.ID, diaryContentPatch(content)); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
	}
	fmt.Fprintln(a.out, "Created", shortID(d.ID))
	return nil
}

// Show prints one entry in full.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return nil
	}
	d, err := a.findDiary(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	fmt.Fprintf(a.out, "%s  %s\n", d.ID, d.Title)
	fmt.Fprintf(a.out, "created %s, updated %s\n", formatMillis(d.CreatedAt), formatMillis(d.UpdatedAt))
	if len(d.Tags) > 0 {
		fmt.Fprintln(a.out, "tags:", strings.Join(d.Tags, ", "))
	}
	if d.FolderID != "" {
		if f, ok := a.folders.Get(d.FolderID); ok {
			fmt.Fprintln(a.out, "folder:", f.Name)
		}
	}
	if d.Content != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, d.Content)
	}
	return nil
}

// Edit replaces the entry's content from a multiline prompt.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return nil
	}
	d, err := a.findDiary(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	content, err := GetMultiline(a.reader, "New content for "+d.Title, a.out)
	if err != nil {
		return err
	}
	if _, err := a.diaries.Update(ctx, d.ID, diaryContentPatch(content)); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	fmt.Fprintln(a.out, "Updated", shortID(d.ID))
	return nil
}

// Delete removes one entry.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return nil
	}
	d, err := a.findDiary(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if err := a.diaries.Delete(ctx, d.ID); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted", shortID(d.ID))
	return nil
}

// Tag replaces an entry's tag list.
func (a *App) Tag(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.out, "Usage: tag <id> [tags...]")
		return nil
	}
	d, err := a.findDiary(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	updated, err := a.diaries.SetTags(ctx, d.ID, args[1:])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	fmt.Fprintln(a.out, "Tags:", strings.Join(updated.Tags, ", "))
	return nil
}

// Move files an entry in a folder (matched by name or id); with no folder
// argument the entry becomes unfiled.
func (a *App) Move(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: move <id> [folder]")
		return nil
	}
	d, err := a.findDiary(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	folderID := ""
	if len(args) > 1 {
		f, err := a.findFolder(strings.Join(args[1:], " "))
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
		folderID = f.ID
	}
	if _, err := a.diaries.SetFolder(ctx, d.ID, folderID); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if folderID == "" {
		fmt.Fprintln(a.out, "Unfiled", shortID(d.ID))
	} else {
		fmt.Fprintln(a.out, "Moved", shortID(d.ID))
	}
	return nil
}

// Analyze runs the analysis provider over one entry and prints the result.
func (a *App) Analyze(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: analyze <id>")
		return nil
	}
	d, err := a.findDiary(args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	text := strings.TrimSpace(d.Title + ". " + stripMarkup(d.Content))
	r, err := a.analyses.Analyze(ctx, d.ID, text)
	if err != nil {
		fmt.Fprintln(a.out, "Analysis failed:", err)
		return err
	}

	fmt.Fprintf(a.out, "Summary (%s): %s\n", r.Source, r.Summary)
	for _, s := range r.Suggestions {
		fmt.Fprintln(a.out, "  -", s)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintln(a.out, "Suggested tags:", strings.Join(r.Tags, ", "))
	}
	return nil
}

// stripMarkup flattens an HTML fragment to plain text, well enough for
// analysis prompts. Tags are dropped, block boundaries become spaces.
func stripMarkup(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
