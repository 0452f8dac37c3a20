package main

import (
	"github.com/spf13/cobra"

	"github.com/jask/swipeback/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "swipeback",
		Short:         "Edge-swipe back navigation for terminal screens",
		Long:          `swipeback drives a stack of terminal screens that can be dragged off from the screen edge with the mouse. Sessions are journaled to sqlite for review.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file (default $SWIPEBACK_CONFIG or ~/.config/swipeback/config.toml)")
	root.AddCommand(newDemoCmd(), newJournalCmd(), newConfigCmd())
	return root
}

func loaderFor(cmd *cobra.Command) *config.Loader {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Path()
	}
	return config.NewLoader(path)
}
