package main

import (
	"fmt"
	"os"

	"github.com/Snuffy2/hass-favicon/internal/ui"
	"github.com/Snuffy2/hass-favicon/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "hass-favicon",
	Short:   "hass-favicon — custom favicon and branding for the Home Assistant dashboard",
	Version: version.Version,
}

func init() {
	rootCmd.Long = ui.Green.Render("hass-favicon") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Serves a rebranded Home Assistant dashboard shell with custom favicons, tab title, and launch icon color.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
