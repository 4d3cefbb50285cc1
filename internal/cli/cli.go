// Package cli implements the marionette command-line interface.
//
// # Commands
//
//   - run: open the interactive window
//   - replay: replay an interaction script headlessly and print the final pose
//   - inspect: print the joints of the hand
//   - snapshot: render the hand to a PNG or WebP file
//
// All commands accept --config (a TOML file) and --verbose (-v). The logger
// is passed to commands through context.Context.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/marionette"
	"github.com/phanxgames/marionette/internal/config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// WindowFunc opens an interactive window on scene and blocks until it closes
// or ctx is cancelled.
type WindowFunc func(ctx context.Context, scene *marionette.Scene, cfg config.Config) error

// ErrNoWindow is returned by run when the binary was built without a window
// frontend.
var ErrNoWindow = errors.New("no window frontend available")

// CLI holds shared state for all commands.
type CLI struct {
	logw   io.Writer
	window WindowFunc

	configPath string
	verbose    bool
	flags      config.Flags
	cfg        config.Config
}

// New creates a CLI that logs to logw and opens windows with window. window
// may be nil.
func New(logw io.Writer, window WindowFunc) *CLI {
	if logw == nil {
		logw = os.Stderr
	}
	return &CLI{logw: logw, window: window}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "marionette",
		Short:        "Marionette poses an articulated hand",
		Long:         `Marionette is a forward-kinematics hand puppet. Click a joint to select it and use the arrow keys to curl or spread it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.snapshotCommand())
	return root
}

// setup loads the config, applies flag overrides and attaches the logger to
// the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg := config.Config{}
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	c.flags.Verbose = c.verbose
	cfg.Resolve(c.flags)
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, marionette.NewLogger(c.logw, level)))
	return nil
}

// newScene builds a scene from the resolved config.
func (c *CLI) newScene(ctx context.Context) (*marionette.Scene, error) {
	return c.cfg.NewScene(loggerFromContext(ctx))
}

// loadScript reads and parses an interaction script.
func loadScript(path string) (*marionette.TestRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return marionette.LoadTestScript(data)
}

// Execute runs the CLI with args and returns the first command error.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
