package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/nibzard/termtasks/internal/config"
	"github.com/nibzard/termtasks/internal/query"
	"github.com/nibzard/termtasks/internal/todo"
	"github.com/nibzard/termtasks/internal/utils"
)

// doctorCommand checks config, the tasks file, the log directory and the
// hook command.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	flags := flag.NewFlagSet("termtasks doctor", flag.ContinueOnError)
	verbose := flags.Bool("v", false, "Verbose output")
	schemaPath := flags.String("schema", "", "Validate against this JSON Schema instead of the built-in one")

	if err := flags.Parse(args); err != nil {
		return err
	}
	remaining := flags.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	cfg := cws.Config
	tasksPath := cfg.TasksFile
	if len(remaining) == 1 {
		tasksPath = remaining[0]
	}

	fmt.Println("Termtasks Doctor")
	fmt.Println("================")
	fmt.Println()

	allOK := true

	fmt.Println("Config:")
	if len(cws.Files) == 0 {
		fmt.Println("  ✅ No config files (using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Printf("  ✅ %s\n", f)
	}
	if err := config.Validate(cfg); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Printf("  ❌ %s\n", line)
		}
		allOK = false
	}
	fmt.Println()

	fmt.Printf("Tasks file: %s\n", tasksPath)
	if !checkTasksFile(tasksPath, *schemaPath, *verbose) {
		allOK = false
	}
	fmt.Println()

	fmt.Printf("Log directory: %s\n", cfg.LogDir)
	if info, err := os.Stat(cfg.LogDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("  ⚠️  Not found (will be created on first run)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Println("  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	fmt.Println("Hook:")
	if !checkHook(cfg.HookCommand) {
		allOK = false
	}
	fmt.Println()

	if *verbose {
		fmt.Println("Feedback:")
		fmt.Printf("  sound=%t notify=%t boot_screen=%t animations=%t\n", cfg.Sound, cfg.Notify, cfg.BootScreen, cfg.Animations)
		fmt.Println()
	}

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Termtasks may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkTasksFile validates the tasks file. A missing file is fine: it is
// created on the first change.
func checkTasksFile(path, schemaPath string, verbose bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("  ⚠️  Not found (will be created on first change)")
			return true
		}
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		return false
	}
	fmt.Println("  ✅ OK")

	result, err := todo.ValidateFile(path, todo.ValidationOptions{SchemaPath: schemaPath})
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		return false
	}
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Println("  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Printf("     - %v\n", e)
		}
		return false
	}
	if result.UsedSchema {
		fmt.Println("  ✅ Valid (JSON Schema)")
	} else {
		fmt.Println("  ✅ Valid")
	}

	if verbose {
		tasks, _, err := todo.LoadFile(path)
		if err == nil {
			s := query.Summarize(tasks, todo.Today(todo.SystemClock))
			fmt.Printf("  Tasks: %d (%d active, %d completed, %d overdue)\n", s.Total, s.Pending, s.Completed, s.Overdue)
		}
	}
	return true
}

// checkHook reports whether the hook executable can be found. No hook is
// fine.
func checkHook(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fmt.Println("  ✅ None configured")
		return true
	}
	binary := fields[0]
	fmt.Printf("  command: %s\n", command)

	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			fmt.Println("  ❌ Path is a directory")
			return false
		}
		if !utils.IsExecutable(binary, info) {
			fmt.Println("  ❌ Not executable")
			return false
		}
		fmt.Println("  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		fmt.Printf("  ❌ Not found: %v\n", err)
		return false
	}
	fmt.Printf("  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}
