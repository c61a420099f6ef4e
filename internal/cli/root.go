package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"imagesync/internal/config"
	"imagesync/internal/prism"
)

var (
	flagHost     string
	flagPort     string
	flagUsername string
	flagPassword string
	flagInsecure bool
	flagValues   string
	flagTimeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "imagesync",
	Short: "Imagesync reconciles declared disk images against Nutanix Prism Central",
	Long: `Imagesync is a declarative tool for managing Nutanix Prism Central disk
images. It compares an image manifest against the remote state and creates,
updates or deletes the image to converge, waiting for the triggered task.`,
}

// Execute executes the root CLI command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "Prism Central hostname (falls back to PC_HOSTNAME)")
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "Prism Central port (falls back to PC_PORT, default 9440)")
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "Prism Central username (falls back to PC_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Prism Central password (falls back to PC_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&flagInsecure, "insecure", false, "Skip certificate verification (falls back to VALIDATE_CERTS=false)")
	rootCmd.PersistentFlags().StringVar(&flagValues, "values", "", "Values file for manifest templating")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 10*time.Minute, "Upper bound for waiting on remote tasks (0 waits until interrupted)")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(destroyCmd)
	rootCmd.AddCommand(lintCmd)
}

// newClient builds the Prism client from flags with env fallbacks
func newClient() (prism.Client, error) {
	settings := config.Load()
	if flagHost != "" {
		settings.Hostname = flagHost
	}
	if flagPort != "" {
		settings.Port = flagPort
	}
	if flagUsername != "" {
		settings.Username = flagUsername
	}
	if flagPassword != "" {
		settings.Password = flagPassword
	}
	if flagInsecure {
		settings.Insecure = true
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return prism.NewHTTPClient(prism.HTTPOptions{
		Hostname: settings.Hostname,
		Port:     settings.Port,
		Username: settings.Username,
		Password: settings.Password,
		Insecure: settings.Insecure,
	}), nil
}
