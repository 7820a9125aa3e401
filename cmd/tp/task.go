package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/taskpad/internal/deadline"
	"github.com/amonks/taskpad/internal/editor"
	"github.com/amonks/taskpad/internal/ui"
	"github.com/amonks/taskpad/internal/validation"
	"github.com/amonks/taskpad/task"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [name...]",
	Short: "Add a task",
	Long: `Add a task.

Opens $EDITOR when no name is given and stdin is a terminal. Use --edit to
force the editor, or --no-edit to skip it.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAdd,
}

var (
	addDeadline = newDeadlineValue()
	addNote     string
	addEdit     bool
	addNoEdit   bool
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task",
	Long: `Edit a task.

Without field flags, opens $EDITOR when stdin is a terminal. Any edit clears
the task's reminder so a new deadline can trigger one.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editName          string
	editDeadline      = newDeadlineValue()
	editClearDeadline bool
	editNote          string
	editEdit          bool
	editNoEdit        bool
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show task details",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

type sortOrder string

const (
	sortAdded    sortOrder = "added"
	sortDeadline sortOrder = "deadline"
)

var sortOrders = []sortOrder{sortAdded, sortDeadline}

var errUnknownSortOrder = errors.New("unknown sort order")

var (
	listOverdue bool
	listPending bool
	listQuery   string
	listSort    string
	listJSON    bool
)

func init() {
	rootCmd.AddCommand(addCmd, editCmd, rmCmd, showCmd, listCmd)

	addCmd.Flags().Var(addDeadline, "deadline", "Deadline (RFC 3339, \"YYYY-MM-DD HH:MM\", \"YYYY-MM-DD\" or \"+90m\")")
	addCmd.Flags().StringVarP(&addNote, "note", "n", "", "Note in markdown (use '-' to read from stdin)")
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no name is given)")
	addCmd.Flags().BoolVar(&addNoEdit, "no-edit", false, "Do not open $EDITOR")

	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().Var(editDeadline, "deadline", "New deadline")
	editCmd.Flags().BoolVar(&editClearDeadline, "clear-deadline", false, "Remove the deadline")
	editCmd.Flags().StringVarP(&editNote, "note", "n", "", "New note (use '-' to read from stdin)")
	editCmd.Flags().BoolVarP(&editEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no field flags)")
	editCmd.Flags().BoolVar(&editNoEdit, "no-edit", false, "Do not open $EDITOR")
	editCmd.MarkFlagsMutuallyExclusive("deadline", "clear-deadline")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	listCmd.Flags().BoolVar(&listOverdue, "overdue", false, "Only tasks past their deadline")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "Only tasks with a deadline still ahead")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Filter by name or note substring")
	listCmd.Flags().StringVar(&listSort, "sort", string(sortAdded), "Sort order ("+validation.FormatValidValues(sortOrders)+")")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.MarkFlagsMutuallyExclusive("overdue", "pending")

	addTaskFlagAliases(addCmd, editCmd)
}

func resolveNoteFromStdin(note string, reader io.Reader) (string, error) {
	if note != "-" {
		return note, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read note from stdin: %w", err)
	}

	value := strings.TrimSuffix(string(input), "\n")
	value = strings.TrimSuffix(value, "\r")
	return value, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("note") {
		note, err := resolveNoteFromStdin(addNote, os.Stdin)
		if err != nil {
			return err
		}
		addNote = note
	}
	name := strings.Join(args, " ")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	useEditor := shouldUseEditor(name != "", addEdit, addNoEdit, editor.IsInteractive())
	opts := task.AddOptions{Deadline: addDeadline.Time(), Note: addNote}
	if useEditor {
		data := editor.TaskData{Name: name, Note: addNote}
		if opts.Deadline != nil {
			data.Deadline = deadline.Format(opts.Deadline, a.loc)
		}
		parsed, err := editor.EditTask(data, a.store.Now(), a.loc)
		if err != nil {
			return err
		}
		name = parsed.Name
		opts = parsed.ToAddOptions()
	} else if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required (use --edit to open editor)")
	}

	added, err := a.store.Add(name, opts)
	if err != nil {
		return err
	}

	highlight, err := taskHighlighter(a.store)
	if err != nil {
		return err
	}
	fmt.Printf("Added task %s: %s\n", highlight(added.ID), added.Name)
	if added.Deadline != nil {
		fmt.Printf("Deadline: %s (%s)\n", ui.FormatDeadline(added.Deadline, a.loc), ui.FormatRemaining(added.Deadline, a.store.Now()))
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("note") {
		note, err := resolveNoteFromStdin(editNote, os.Stdin)
		if err != nil {
			return err
		}
		editNote = note
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	existing, err := a.store.Find(args[0])
	if err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, "name", "deadline", "clear-deadline", "note")
	var opts task.UpdateOptions
	if shouldUseEditor(hasFlags, editEdit, editNoEdit, editor.IsInteractive()) {
		data := editor.DataFromTask(existing, a.loc)
		if cmd.Flags().Changed("name") {
			data.Name = editName
		}
		if cmd.Flags().Changed("deadline") {
			data.Deadline = deadline.Format(editDeadline.Time(), a.loc)
		}
		if editClearDeadline {
			data.Deadline = ""
		}
		if cmd.Flags().Changed("note") {
			data.Note = editNote
		}

		parsed, err := editor.EditTask(data, a.store.Now(), a.loc)
		if err != nil {
			return err
		}
		opts = parsed.ToUpdateOptions()
	} else {
		if !hasFlags {
			return fmt.Errorf("nothing to update (pass --name, --deadline, --clear-deadline or --note, or use --edit)")
		}
		opts = editUpdateOptions(cmd)
	}

	updated, err := a.store.Update(existing.ID, opts)
	if err != nil {
		return err
	}

	highlight, err := taskHighlighter(a.store)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %s: %s\n", highlight(updated.ID), updated.Name)
	return nil
}

func editUpdateOptions(cmd *cobra.Command) task.UpdateOptions {
	var opts task.UpdateOptions
	if cmd.Flags().Changed("name") {
		opts.Name = task.StringPtr(editName)
	}
	if cmd.Flags().Changed("deadline") {
		if d := editDeadline.Time(); d != nil {
			opts.Deadline = d
		} else {
			opts.ClearDeadline = true
		}
	}
	if editClearDeadline {
		opts.ClearDeadline = true
	}
	if cmd.Flags().Changed("note") {
		opts.Note = task.StringPtr(editNote)
	}
	return opts
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	highlight, err := taskHighlighter(a.store)
	if err != nil {
		return err
	}
	for _, id := range args {
		found, err := a.store.Find(id)
		if err != nil {
			return err
		}
		removed, err := a.store.Remove(found.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Removed task %s: %s\n", highlight(removed.ID), removed.Name)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	items := make([]task.Task, 0, len(args))
	for _, id := range args {
		found, err := a.store.Find(id)
		if err != nil {
			return err
		}
		items = append(items, *found)
	}

	if showJSON {
		return encodeJSONToStdout(items)
	}

	highlight, err := taskHighlighter(a.store)
	if err != nil {
		return err
	}
	window := reminderWindow(a.cfg)
	th := a.theme()
	now := a.store.Now()
	for i, item := range items {
		if i > 0 {
			fmt.Println()
		}
		printTaskDetail(item, detailOptions{
			highlight: highlight,
			now:       now,
			loc:       a.loc,
			window:    window,
			theme:     th,
		})
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.store.List(task.ListFilter{
		Overdue: listOverdue,
		Pending: listPending,
		Query:   listQuery,
	})
	if err != nil {
		return err
	}

	switch sortOrder(strings.ToLower(strings.TrimSpace(listSort))) {
	case "", sortAdded:
	case sortDeadline:
		task.SortByDeadline(items)
	default:
		return validation.FormatInvalidValueError(errUnknownSortOrder, sortOrder(listSort), sortOrders)
	}

	if listJSON {
		return encodeJSONToStdout(items)
	}

	all, err := a.store.List(task.ListFilter{})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println(taskEmptyListMessage(len(all), hasChangedFlags(cmd, "overdue", "pending", "query")))
		return nil
	}
	fmt.Print(formatTaskTable(items, task.PrefixLengths(all), ui.HighlightID, a.store.Now(), a.loc, reminderWindow(a.cfg)))
	return nil
}

func taskHighlighter(store *task.Store) (func(string) string, error) {
	all, err := store.List(task.ListFilter{})
	if err != nil {
		return nil, err
	}
	return logHighlighter(task.PrefixLengths(all), ui.HighlightID), nil
}

func taskEmptyListMessage(total int, filtered bool) string {
	if total == 0 {
		return "No tasks found. Use \"tp add\" to create one."
	}
	if filtered {
		return "No tasks match the given filters."
	}
	return "No tasks found."
}
