package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/marionette"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var digitName string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the joints of the hand",
		Long: `Print the hand's joint hierarchy with rest pivots and angles. The hand
comes from the config file when one is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			digit := marionette.DigitNone
			if digitName != "" {
				d, ok := marionette.ParseDigit(digitName)
				if !ok {
					return fmt.Errorf("unknown digit %q", digitName)
				}
				digit = d
			}

			scene, err := c.newScene(cmd.Context())
			if err != nil {
				return err
			}

			rows := scene.Report()
			if digit != marionette.DigitNone {
				filtered := rows[:0]
				for _, r := range rows {
					if r.Digit == digit {
						filtered = append(filtered, r)
					}
				}
				rows = filtered
			}

			cam := scene.Camera()
			policy := scene.Policy()
			printTitle(out, "Hand")
			printKeyValue(out, "Joints", fmt.Sprint(scene.Chain().Len()))
			printKeyValue(out, "Segments", fmt.Sprint(len(scene.Chain().Segments())))
			printKeyValue(out, "Camera", fmt.Sprintf("yaw %.0f° pitch %.0f° distance %.2f", cam.Yaw, cam.Pitch, cam.Distance))
			printKeyValue(out, "Step", formatDegrees(policy.StepDegrees))
			printKeyValue(out, "Sweep", formatDegrees(policy.SweepLimit))
			fmt.Fprintln(out)
			fmt.Fprintln(out, poseTable(rows, ""))
			return nil
		},
	}

	cmd.Flags().StringVar(&digitName, "digit", "", "only show joints of this digit (thumb, index, middle, ring, pinky)")
	return cmd
}
