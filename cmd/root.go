// Package cmd implements the CLI command structure for termtasks.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nibzard/termtasks/internal/config"
	"github.com/nibzard/termtasks/internal/logging"
	"github.com/nibzard/termtasks/internal/notify"
	"github.com/nibzard/termtasks/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// shortIDLen is how many id characters the CLI prints.
const shortIDLen = 8

// Run executes the termtasks CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("termtasks", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No subcommand opens the interactive UI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "clear":
		return clearCommand(cfg, remainingArgs)
	case "stats":
		return statsCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		// An existing file opens the UI on that file.
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			return tuiCommand(ctx, cfg, append([]string{subcommand}, remainingArgs...))
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// session bundles what every task command needs: the logger, the store and
// the event dispatcher that runs the hook command.
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	store  *todo.Store
	events *notify.Dispatcher
}

// openSession opens the log file and loads the task store. sinks are added
// to the dispatcher next to the hook sink.
func openSession(cfg *config.Config, sinks ...notify.Sink) *session {
	logger, err := logging.New(logging.Options{
		Path:       cfg.LogPath(),
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	if hook := notify.NewHookSink(cfg.HookCommand, cfg.TasksFile, cfg.HookTimeout()); hook != nil {
		sinks = append(sinks, hook)
	}
	return &session{
		cfg:    cfg,
		logger: logger,
		store:  todo.Open(cfg.TasksFile, todo.WithLogger(logger.Logger)),
		events: notify.NewDispatcher(logger.Logger, sinks...),
	}
}

// close waits for pending hook runs, bounded by the hook timeout, then
// closes the log file.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HookTimeout()+time.Second)
	defer cancel()
	s.events.Close(ctx)
	_ = s.logger.Close()
}

// reportSave prints the last save failure, if any, to stderr. The change
// stays in memory only, so the command fails.
func (s *session) reportSave() error {
	if err := s.store.LastSaveError(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: changes not saved to %s\n", s.store.Path())
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// resolve finds a task by id or unique id prefix.
func (s *session) resolve(ref string) (todo.Task, error) {
	t, ok := s.store.Resolve(ref)
	if !ok {
		return todo.Task{}, fmt.Errorf("%w: %s", todo.ErrNotFound, ref)
	}
	return t, nil
}

// parseWithRef parses fs while accepting the task reference either before
// or after the flags.
func parseWithRef(fs *flag.FlagSet, args []string) (string, error) {
	var ref string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		ref, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	remaining := fs.Args()
	if ref == "" && len(remaining) > 0 {
		ref, remaining = remaining[0], remaining[1:]
	}
	if len(remaining) > 0 {
		return "", fmt.Errorf("unexpected arguments: %v", remaining)
	}
	if ref == "" {
		return "", errors.New("missing task id")
	}
	return ref, nil
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("termtasks version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Termtasks - a matrix-styled terminal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  termtasks [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui [file]          Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  add TEXT...         Add a task")
	fmt.Fprintln(w, "  ls                  List tasks")
	fmt.Fprintln(w, "  done ID             Toggle completion of a task")
	fmt.Fprintln(w, "  edit ID             Change text, priority or due date")
	fmt.Fprintln(w, "  rm ID               Delete a task")
	fmt.Fprintln(w, "  clear               Delete all completed tasks")
	fmt.Fprintln(w, "  stats               Show task statistics")
	fmt.Fprintln(w, "  export              Write tasks as json, yaml or toml")
	fmt.Fprintln(w, "  doctor              Check config, task file and hook")
	fmt.Fprintln(w, "  tail                Print the log file")
	fmt.Fprintln(w, "  config show|init    Show effective config or write an example")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "IDs may be abbreviated to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -p, -priority string")
	fmt.Fprintln(w, "        Priority (NONE|LOW|MED|HIGH)")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date (YYYY-MM-DD)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        all|pending|completed|high|overdue")
	fmt.Fprintln(w, "  -search string")
	fmt.Fprintln(w, "        Case-insensitive text match")
	fmt.Fprintln(w, "  -v    Show timestamps")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Options:")
	fmt.Fprintln(w, "  -text string, -priority string, -due string (empty clears)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        json|yaml|toml (default json)")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Output file (default stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
