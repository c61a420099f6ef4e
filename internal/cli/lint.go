package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"imagesync/internal/manifest"
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint <manifest>",
	Short: "Validate a manifest without contacting Prism Central",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(args[0], manifest.LoadOptions{ValuesPath: flagValues})
		if err != nil {
			return err
		}

		fmt.Printf("%s manifest %s is valid (image %s)\n", doneStyle.Render("✓"), args[0], m.Name)
		return nil
	},
}
