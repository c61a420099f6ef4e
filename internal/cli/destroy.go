package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imagesync/internal/manifest"
	"imagesync/internal/resource"
)

// destroyCmd represents the destroy command
var destroyCmd = &cobra.Command{
	Use:   "destroy <manifest>",
	Short: "Delete the image named by the manifest, regardless of its declared state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(args[0], manifest.LoadOptions{ValuesPath: flagValues})
		if err != nil {
			return err
		}
		desired := m.ToDescriptor()
		desired.State = resource.StateAbsent

		client, err := newClient()
		if err != nil {
			return err
		}

		controller := resource.NewReconciliationController(client, resource.WithDeadline(flagTimeout))

		outcome, err := controller.Reconcile(cmd.Context(), desired)
		if err != nil {
			return err
		}

		displayOutcome(desired.Name, outcome)
		if outcome.Failed() {
			return fmt.Errorf("deletion of image %s failed", desired.Name)
		}

		return nil
	},
}
