package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wallsense",
	Short: "Wallsense - wall region and color palette analysis",
	Long: `Wallsense analyzes photos of interior spaces: it locates the most
plausible wall region, extracts a representative color palette with
matching color harmonies, and reports perspective data for overlays.

Run it as an HTTP API with "wallsense serve" or analyze a single image
from the command line with "wallsense analyze".`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
