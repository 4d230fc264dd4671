package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/shellkit/pkg/routes"
)

func routesCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled route tree",
		Long: `Routes compiles the manifest the way the server does and prints
one line per node: its full path, how it renders, and its title.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			shell := routes.New(routes.Config{
				Routes:          a.manifest.Routes,
				RedirectIndexTo: a.manifest.RedirectIndexTo,
				Logger:          a.logger,
			})
			defer shell.Close()
			return routes.FormatTree(cmd.OutOrStdout(), shell.Tree())
		},
	}
	return cmd
}
