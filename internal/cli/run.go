package cli

import (
	"github.com/spf13/cobra"

	"github.com/phanxgames/marionette/snapshot"
)

func (c *CLI) runCommand() *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive window",
		Long: `Open a window showing the hand. Click a joint to select it; Up and Down
curl it, Left and Right spread a knuckle. Right-drag orbits the camera, the
wheel zooms, Home resets the camera and R resets the pose.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if c.window == nil {
				return ErrNoWindow
			}

			scene, err := c.newScene(ctx)
			if err != nil {
				return err
			}
			format, err := snapshot.ParseFormat(c.cfg.Snapshot.Format)
			if err != nil {
				return err
			}
			opts := snapshot.DefaultOptions()
			opts.Supersample = c.cfg.Snapshot.Supersample
			scene.SetSnapshotHandler(snapshot.Handler(scene, c.cfg.Snapshot.Dir, format, opts))

			if script != "" {
				runner, err := loadScript(script)
				if err != nil {
					return err
				}
				scene.SetTestRunner(runner)
				logger.Info("script attached", "path", script, "steps", runner.Len())
			}

			logger.Debug("opening window", "width", c.cfg.Window.Width, "height", c.cfg.Window.Height)
			return c.window(ctx, scene, c.cfg)
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "play an interaction script inside the window")
	cmd.Flags().IntVar(&c.flags.Width, "width", 0, "window width in pixels")
	cmd.Flags().IntVar(&c.flags.Height, "height", 0, "window height in pixels")
	return cmd
}
