package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/termtasks/internal/config"
	"github.com/nibzard/termtasks/internal/notify"
	"github.com/nibzard/termtasks/internal/query"
	"github.com/nibzard/termtasks/internal/todo"
)

// addCommand creates a task. A due date is applied with a follow-up edit
// because new tasks never carry one.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks add", flag.ContinueOnError)
	priority := fs.String("priority", string(todo.PriorityNone), "Priority (NONE|LOW|MED|HIGH)")
	fs.StringVar(priority, "p", string(todo.PriorityNone), "Priority (NONE|LOW|MED|HIGH)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(text) == "" {
		return todo.ErrEmptyText
	}
	p, err := todo.ParsePriority(*priority)
	if err != nil {
		return err
	}
	if *due != "" {
		if _, err := todo.ParseDate(*due); err != nil {
			return err
		}
	}

	s := openSession(cfg)
	defer s.close()

	t, ok := s.store.Add(text, p)
	if !ok {
		return todo.ErrEmptyText
	}
	if *due != "" {
		t, _ = s.store.Edit(t.ID, t.Text, t.Priority, *due)
	}
	s.events.Send(notify.Event{Kind: notify.Add, TaskID: t.ID, TaskText: t.Text})
	if err := s.reportSave(); err != nil {
		return err
	}
	fmt.Printf("Added %s: %s\n", shortID(t.ID), t.Text)
	return nil
}

// lsCommand lists tasks in display order.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks ls", flag.ContinueOnError)
	filter := fs.String("filter", cfg.DefaultFilter, "Filter (all|pending|completed|high|overdue)")
	search := fs.String("search", "", "Case-insensitive text match")
	verbose := fs.Bool("v", false, "Show timestamps")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		*filter = remaining[0]
	}
	kind, err := query.ParseKind(*filter)
	if err != nil {
		return err
	}

	s := openSession(cfg)
	defer s.close()

	today := todo.Today(todo.SystemClock)
	tasks := query.Filter(s.store.Tasks(), kind, *search, today)
	printTaskList(tasks, today, *verbose)
	return nil
}

// doneCommand toggles completion of a task.
func doneCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks done", flag.ContinueOnError)
	ref, err := parseWithRef(fs, args)
	if err != nil {
		return err
	}

	s := openSession(cfg)
	defer s.close()

	found, err := s.resolve(ref)
	if err != nil {
		return err
	}
	t, _ := s.store.Toggle(found.ID)
	kind, verb := notify.Reopen, "Reopened"
	if t.Completed {
		kind, verb = notify.Complete, "Completed"
	}
	s.events.Send(notify.Event{Kind: kind, TaskID: t.ID, TaskText: t.Text})
	if err := s.reportSave(); err != nil {
		return err
	}
	fmt.Printf("%s %s: %s\n", verb, shortID(t.ID), t.Text)
	return nil
}

// editCommand changes the fields given as flags and keeps the rest. An
// empty -due clears the due date.
func editCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks edit", flag.ContinueOnError)
	text := fs.String("text", "", "New task text")
	priority := fs.String("priority", "", "New priority (NONE|LOW|MED|HIGH)")
	fs.StringVar(priority, "p", "", "New priority (NONE|LOW|MED|HIGH)")
	due := fs.String("due", "", "New due date (YYYY-MM-DD, empty clears)")
	ref, err := parseWithRef(fs, args)
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return fmt.Errorf("nothing to change: pass -text, -priority or -due")
	}
	if set["text"] && strings.TrimSpace(*text) == "" {
		return todo.ErrEmptyText
	}
	if *due != "" {
		if _, err := todo.ParseDate(*due); err != nil {
			return err
		}
	}

	s := openSession(cfg)
	defer s.close()

	cur, err := s.resolve(ref)
	if err != nil {
		return err
	}
	newText, newPriority, newDue := cur.Text, cur.Priority, ""
	if cur.DueDate != nil {
		newDue = cur.DueDate.String()
	}
	if set["text"] {
		newText = *text
	}
	if set["priority"] || set["p"] {
		if newPriority, err = todo.ParsePriority(*priority); err != nil {
			return err
		}
	}
	if set["due"] {
		newDue = *due
	}

	t, _ := s.store.Edit(cur.ID, newText, newPriority, newDue)
	s.events.Send(notify.Event{Kind: notify.Edit, TaskID: t.ID, TaskText: t.Text})
	if err := s.reportSave(); err != nil {
		return err
	}
	fmt.Printf("Updated %s: %s\n", shortID(t.ID), t.Text)
	return nil
}

// rmCommand deletes a task.
func rmCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks rm", flag.ContinueOnError)
	ref, err := parseWithRef(fs, args)
	if err != nil {
		return err
	}

	s := openSession(cfg)
	defer s.close()

	t, err := s.resolve(ref)
	if err != nil {
		return err
	}
	s.store.Delete(t.ID)
	s.events.Send(notify.Event{Kind: notify.Delete, TaskID: t.ID, TaskText: t.Text})
	if err := s.reportSave(); err != nil {
		return err
	}
	fmt.Printf("Deleted %s: %s\n", shortID(t.ID), t.Text)
	return nil
}

// clearCommand deletes every completed task.
func clearCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks clear", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s := openSession(cfg)
	defer s.close()

	n := s.store.ClearCompleted()
	if n == 0 {
		fmt.Println("No completed tasks.")
		return nil
	}
	s.events.Send(notify.Event{Kind: notify.Clear, TaskText: fmt.Sprintf("%d", n)})
	if err := s.reportSave(); err != nil {
		return err
	}
	fmt.Printf("Cleared %d completed task(s).\n", n)
	return nil
}

// statsCommand prints the summary statistics.
func statsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks stats", flag.ContinueOnError)
	format := fs.String("format", "text", "Output format (text|json|yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := openSession(cfg)
	defer s.close()

	stats := query.Summarize(s.store.Tasks(), todo.Today(todo.SystemClock))
	switch strings.ToLower(*format) {
	case "text", "":
		printStats(stats)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(stats)
	default:
		return fmt.Errorf("unknown format %q, must be one of: text, json, yaml", *format)
	}
	return nil
}

func printStats(s query.Stats) {
	fmt.Printf("Total:          %d\n", s.Total)
	fmt.Printf("Active:         %d\n", s.Pending)
	fmt.Printf("Completed:      %d\n", s.Completed)
	fmt.Printf("High priority:  %d\n", s.HighPriority)
	fmt.Printf("Overdue:        %d\n", s.Overdue)
	fmt.Printf("Completion:     [%s] %d%%\n", s.Bar(10), s.Percent)
}

// printTaskList prints tasks one per line.
func printTaskList(tasks []todo.Task, today todo.Date, verbose bool) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}
	for _, t := range tasks {
		printTask(t, today, verbose)
	}
}

// printTask prints a single task.
func printTask(t todo.Task, today todo.Date, verbose bool) {
	check := "[ ]"
	if t.Completed {
		check = "[X]"
	}
	line := fmt.Sprintf("  %s %-8s", check, shortID(t.ID))
	if t.Priority != todo.PriorityNone {
		line += fmt.Sprintf(" [%s]", t.Priority)
	}
	line += " " + t.Text
	if due := query.DueLabel(t, today); due != "" {
		line += "  (" + due + ")"
	}
	fmt.Println(line)

	if verbose {
		fmt.Printf("      Created: %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
		if t.CompletedAt != nil {
			fmt.Printf("      Completed: %s\n", t.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
	}
}
