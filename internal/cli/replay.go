package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/marionette"
	"github.com/phanxgames/marionette/ecs"
	"github.com/phanxgames/marionette/snapshot"
)

const defaultMaxFrames = 10000

func (c *CLI) replayCommand() *cobra.Command {
	var maxFrames int

	cmd := &cobra.Command{
		Use:   "replay <script.json>",
		Short: "Replay an interaction script headlessly",
		Long: `Replay a JSON interaction script without opening a window. Snapshots
requested by the script are written to the snapshot directory. The final
pose is printed as a table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()

			runner, err := loadScript(args[0])
			if err != nil {
				return err
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

			world := donburi.NewWorld()
			mirror := ecs.NewPoseMirror(world, scene.Chain())
			scene.SetEventSink(mirror)
			counts := map[marionette.EventType]int{}
			ecs.EventType.Subscribe(world, func(w donburi.World, e marionette.Event) {
				counts[e.Type]++
			})
			ecs.PoseDeltaType.Subscribe(world, func(w donburi.World, d ecs.PoseDelta) {
				logger.Debug("pose delta", "joint", d.Name, "key", d.Key,
					"dflex", d.DeltaFlex, "dspread", d.DeltaSpread, "synced", d.Synced)
			})

			p := newProgress(logger)
			var frames int
			var done bool
			for frames < maxFrames && !done {
				if err := ctx.Err(); err != nil {
					return err
				}
				// Drain events between batches so the queue stays short.
				n, ok := scene.RunScript(runner, 1.0/60, min(60, maxFrames-frames))
				frames += n
				done = ok
				events.ProcessAllEvents(world)
			}
			if !done {
				return fmt.Errorf("script %s did not finish within %d frames", args[0], maxFrames)
			}
			p.done("replayed "+args[0], "frames", frames, "steps", runner.Len())

			// Resets in the script do not rotate, so refresh everything once.
			mirror.Sync()
			printTitle(out, "Final pose")
			fmt.Fprintln(out, poseTable(mirrorReport(scene, mirror), selectedName(scene)))
			fmt.Fprintln(out, countsLine(counts))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxFrames, "max-frames", defaultMaxFrames, "give up after this many frames")
	cmd.Flags().StringVar(&c.flags.OutDir, "out", "", "directory for script snapshots")
	cmd.Flags().StringVar(&c.flags.Format, "format", "", "snapshot format (png or webp)")
	return cmd
}

// mirrorReport reads the pose table back from the ECS mirror, in joint id
// order.
func mirrorReport(scene *marionette.Scene, mirror *ecs.PoseMirror) []marionette.PoseReport {
	chain := scene.Chain()
	rows := make([]marionette.PoseReport, chain.Len())
	mirror.Each(func(info ecs.JointInfoData, pose ecs.PoseData) {
		j := chain.Joint(info.ID)
		if j == nil {
			return
		}
		parent := ""
		if p := chain.Joint(info.Parent); p != nil {
			parent = p.Name
		}
		rows[info.ID] = marionette.PoseReport{
			Name:   info.Name,
			Class:  info.Class,
			Digit:  info.Digit,
			Parent: parent,
			Pivot:  pose.Pivot,
			Flex:   pose.Flex,
			Spread: pose.Spread,
			Steps:  len(j.History()),
		}
	})
	return rows
}

func selectedName(scene *marionette.Scene) string {
	if j := scene.SelectedJoint(); j != nil {
		return j.Name
	}
	return ""
}
