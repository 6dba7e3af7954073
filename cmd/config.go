package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/termtasks/internal/config"
)

// configCommand shows the effective configuration or writes an example
// config file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	action := "show"
	if len(args) > 0 {
		action, args = args[0], args[1:]
	}
	switch action {
	case "show":
		return configShow(cws, args)
	case "init":
		return configInit(args)
	case "path":
		// The project file wins when both exist.
		if f := cws.GetConfigFile(); f != "" {
			fmt.Println(f)
			return nil
		}
		fmt.Println(config.UserConfigPath())
		return nil
	default:
		return fmt.Errorf("unknown config action: %s (expected show, init or path)", action)
	}
}

func configShow(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("termtasks config show", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(cws.Files) == 0 {
		fmt.Println("Config files: (none, using defaults)")
	} else {
		fmt.Println("Config files:")
		for _, f := range cws.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Println()
	return cws.Print(os.Stdout)
}

func configInit(args []string) error {
	fs := flag.NewFlagSet("termtasks config init", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := config.UserConfigPath()
	if len(fs.Args()) == 1 {
		path = fs.Args()[0]
	} else if len(fs.Args()) > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	if err := config.WriteExample(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
