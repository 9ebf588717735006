// Package cmd implements the adsview CLI commands.
//
// Global flags are consumed first; the first remaining argument names the
// command and the rest are passed to it.
package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "adsview",
	Short: "Exercise native ad platform views without a device",
	Long: `adsview drives the ad view factory against a simulated host. It creates
platform views for native ads, resizes them, and prints what the host
would receive over the method channel.

Use "adsview <command> --help" for more information about a command.`,
	Usage: "adsview [--config FILE] [--debug] <command> [flags]",
}

var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// globalOptions holds flags accepted before the command name.
type globalOptions struct {
	configPath string
	debug      bool
}

var globals globalOptions

// Execute runs the CLI with the process arguments.
func Execute() error {
	return run(os.Args[1:])
}

func run(args []string) error {
	globals = globalOptions{}

	rest, err := parseGlobals(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 || isHelp(rest[0]) {
		printHelp(rootCmd)
		return nil
	}
	if isVersion(rest[0]) {
		return printVersion()
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", rest[0])
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", rest[0])
	}
	if slices.ContainsFunc(rest[1:], isHelp) {
		printCommandHelp(cmd)
		return nil
	}
	return cmd.Run(rest[1:])
}

// parseGlobals removes --config and --debug wherever they appear before the
// command's own flags and returns the remaining arguments.
func parseGlobals(args []string) ([]string, error) {
	var rest []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--debug":
			globals.debug = true
		case arg == "--config":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--config requires a file path")
			}
			i++
			globals.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			globals.configPath = strings.TrimPrefix(arg, "--config=")
		default:
			rest = append(rest, arg)
		}
	}
	return rest, nil
}

func isHelp(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

func isVersion(arg string) bool {
	return arg == "-v" || arg == "--version" || arg == "version"
}

func printVersion() error {
	fmt.Printf("adsview version %s (built %s)\n", Version, BuildTime)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Printf("engine %s\n", cfg.EngineVersion)
	return nil
}

func printHelp(cmd *Command) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", cmd.Long)
	fmt.Fprintf(&b, "%s\n  %s\n\n", titleStyle.Render("Usage"), cmd.Usage)
	fmt.Fprintf(&b, "%s\n", titleStyle.Render("Commands"))
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(&b, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintf(&b, "\n%s\n", titleStyle.Render("Flags"))
	for _, f := range [][2]string{
		{"-h, --help", "Show help for a command"},
		{"-v, --version", "Show version information"},
		{"--config FILE", "Read settings from FILE (default: ./mobileads.yaml or ./mobileads.toml)"},
		{"--debug", "Render diagnostic error views"},
	} {
		fmt.Fprintf(&b, "  %-18s %s\n", f[0], dimStyle.Render(f[1]))
	}
	fmt.Fprintf(&b, "\n%s\n", titleStyle.Render("Examples"))
	fmt.Fprintln(&b, "  adsview simulate --slot 320x50 --slot 320x400")
	fmt.Fprintln(&b, "  adsview --debug simulate --request 99")
	fmt.Fprintln(&b, "  adsview render --size small --out ad.png")
	fmt.Print(b.String())
}

func printCommandHelp(cmd *Command) {
	fmt.Printf("%s\n\n%s\n  %s\n", cmd.Long, titleStyle.Render("Usage"), cmd.Usage)
}
