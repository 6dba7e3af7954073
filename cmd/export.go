package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/termtasks/internal/config"
	"github.com/nibzard/termtasks/internal/todo"
)

// exportDoc wraps the task list for formats that need a top-level table.
type exportDoc struct {
	Tasks []todo.Task `yaml:"tasks" toml:"tasks"`
}

// exportCommand writes the task list in the requested format.
func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("termtasks export", flag.ContinueOnError)
	format := fs.String("format", "json", "Output format (json|yaml|toml)")
	output := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s := openSession(cfg)
	defer s.close()

	data, err := encodeTasks(s.store.Tasks(), *format)
	if err != nil {
		return err
	}
	if *output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d task(s) to %s\n", s.store.Len(), *output)
	return nil
}

// encodeTasks renders tasks as json (the tasks file format), yaml or toml.
func encodeTasks(tasks []todo.Task, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return todo.EncodeTasks(tasks)
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(exportDoc{Tasks: tasks}); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(exportDoc{Tasks: tasks}); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q, must be one of: json, yaml, toml", format)
	}
}
