package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/marionette/snapshot"
)

func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		output string
		script string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the hand to an image file",
		Long: `Render the hand to a PNG or WebP file. The format follows the output
extension. With --script the script is replayed first and the final pose is
rendered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if _, err := snapshot.FormatFromPath(output); err != nil {
				return fmt.Errorf("%s: %w", output, err)
			}
			scene, err := c.newScene(ctx)
			if err != nil {
				return err
			}

			p := newProgress(logger)
			if script != "" {
				runner, err := loadScript(script)
				if err != nil {
					return err
				}
				frames, ok := scene.RunScript(runner, 1.0/60, defaultMaxFrames)
				if !ok {
					return fmt.Errorf("script %s did not finish within %d frames", script, defaultMaxFrames)
				}
				logger.Debug("script finished", "path", script, "frames", frames)
			}

			opts := snapshot.DefaultOptions()
			opts.Supersample = c.cfg.Snapshot.Supersample
			img := snapshot.Render(scene, opts)
			if err := snapshot.WriteFile(output, img); err != nil {
				return err
			}
			b := img.Bounds()
			p.done("wrote "+output, "width", b.Dx(), "height", b.Dy())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "hand.png", "output file (.png or .webp)")
	cmd.Flags().StringVar(&script, "script", "", "replay this script before rendering")
	cmd.Flags().IntVar(&c.flags.Width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&c.flags.Height, "height", 0, "image height in pixels")
	return cmd
}
