package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/nibzard/termtasks/internal/config"
	"github.com/nibzard/termtasks/internal/logging"
)

// tailCommand prints or follows the log file.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("termtasks tail", flag.ContinueOnError)
	follow := flags.Bool("f", false, "Follow the log (like tail -f)")
	flags.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := flags.Int("n", 0, "Number of lines to show (0 = all)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	logPath := cfg.LogPath()
	if logPath == "" {
		fmt.Println("Logging is disabled (log_dir is empty).")
		return nil
	}
	if _, err := os.Stat(logPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Println("No log file found.")
		return nil
	}

	if *follow {
		fmt.Fprintf(os.Stderr, "Tailing: %s (Ctrl+C to stop)\n", logPath)
	}
	err := logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
	if *follow && ctx.Err() != nil {
		return nil
	}
	return err
}
