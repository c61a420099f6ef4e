package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imagesync/internal/manifest"
	"imagesync/internal/resource"
)

var applyDryRun bool

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply <manifest>",
	Short: "Reconcile an image to its declared state (use --dry-run to preview)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(args[0], manifest.LoadOptions{ValuesPath: flagValues})
		if err != nil {
			return err
		}
		desired := m.ToDescriptor()

		client, err := newClient()
		if err != nil {
			return err
		}

		controller := resource.NewReconciliationController(client, resource.WithDeadline(flagTimeout))
		ctx := cmd.Context()

		if applyDryRun {
			decision, err := controller.Plan(ctx, desired)
			if err != nil {
				return err
			}
			displayDecision(desired.Name, decision)
			return nil
		}

		outcome, err := controller.Reconcile(ctx, desired)
		if err != nil {
			return err
		}

		displayOutcome(desired.Name, outcome)
		if outcome.Failed() {
			return fmt.Errorf("reconciliation of image %s failed", desired.Name)
		}

		return nil
	},
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Preview the decision without applying it")
}
