package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/termtasks/internal/config"
	"github.com/nibzard/termtasks/internal/notify"
	"github.com/nibzard/termtasks/internal/query"
	"github.com/nibzard/termtasks/internal/ui"
)

// tuiCommand launches the terminal UI, optionally on another tasks file.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		cfg.TasksFile = remaining[0]
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (try 'termtasks ls')")
	}

	theme, err := ui.NewTheme(cfg.Theme)
	if err != nil {
		return err
	}
	filter, err := query.ParseKind(cfg.DefaultFilter)
	if err != nil {
		return err
	}

	bell := notify.NewBellSink(os.Stderr, cfg.Sound)
	sinks := []notify.Sink{bell}
	if cfg.Notify {
		sinks = append(sinks, notify.NewDesktopSink())
	}
	s := openSession(cfg, sinks...)
	defer s.close()

	s.logger.Info("tui started", "file", s.store.Path(), "tasks", s.store.Len())
	err = ui.Run(ctx, ui.Options{
		Store:      s.store,
		Events:     s.events,
		Sound:      bell,
		Theme:      theme,
		Boot:       cfg.BootScreen,
		Animations: cfg.Animations,
		Filter:     filter,
		Logger:     s.logger.Logger,
	})
	if saveErr := s.store.LastSaveError(); saveErr != nil {
		fmt.Fprintf(os.Stderr, "warning: last change not saved to %s: %v\n", s.store.Path(), saveErr)
	}
	return err
}
