package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"postboard/app/config"
	"postboard/app/logging"
	"postboard/service"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command named by os.Args.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("postboard version %s\n", CliVersion)
	case "serve":
		cfg := loadConfig()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := service.RunAppServer(ctx, cfg); err != nil {
			fmt.Printf("Server error: %v\n", err)
			exit(1)
		}
	case "browse":
		userID, err := parseUserFlag(os.Args[2:])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			exit(1)
			return
		}
		cfg := loadConfig()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := service.RunBrowse(ctx, cfg, userID, os.Stdin, os.Stdout); err != nil {
			fmt.Printf("Browse error: %v\n", err)
			exit(1)
		}
	case "comments":
		if cfg, err := config.Load(); err == nil {
			service.SetDBPath(cfg.CommentsDBPath)
		}
		if code := service.HandleCommand(os.Args[2:]); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

// loadConfig reads the configuration and installs the global logger.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		exit(1)
		return nil
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())
	service.SetDBPath(cfg.CommentsDBPath)
	return cfg
}

// parseUserFlag reads an optional "--user N" (or "--user=N") from args.
func parseUserFlag(args []string) (int, error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var value string
		switch {
		case arg == "--user":
			if i+1 >= len(args) {
				return 0, fmt.Errorf("--user requires a user id")
			}
			value = args[i+1]
			i++
		case strings.HasPrefix(arg, "--user="):
			value = strings.TrimPrefix(arg, "--user=")
		default:
			return 0, fmt.Errorf("unknown browse option %q", arg)
		}
		id, err := strconv.Atoi(value)
		if err != nil || id < 0 {
			return 0, fmt.Errorf("--user expects a non-negative number, got %q", value)
		}
		return id, nil
	}
	return 0, nil
}

func printHelp() {
	helpText := `Usage: postboard <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the blog web service and JSON API.
  browse [--user <id>]           Page through posts in the terminal.
  comments <subcommand>          Manage locally stored comments (stats, clean, backup, restore).
`
	fmt.Println(helpText)
}
