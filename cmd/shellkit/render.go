package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/shellkit/pkg/hostbridge"
	"github.com/vango-dev/shellkit/pkg/render"
	"github.com/vango-dev/shellkit/pkg/routes"
)

func renderCmd(configFile *string) *cobra.Command {
	var (
		pretty  bool
		page    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render one location to stdout",
		Long: `Render navigates a shell to path, waits for lazy content and writes
the resulting HTML to stdout. The page title and breadcrumbs are
written to stderr unless --page is set.

Examples:
  shellkit render /settings/profile
  shellkit render --page --pretty /`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var (
				title  string
				crumbs []routes.Breadcrumb
			)
			shell := routes.New(routes.Config{
				Routes:          a.manifest.Routes,
				RedirectIndexTo: a.manifest.RedirectIndexTo,
				Logger:          a.logger,
				Host: routes.Host{
					SetPageTitle:   func(t string) { title = t },
					SetBreadcrumbs: func(items []routes.Breadcrumb) { crumbs = items },
				},
			})
			defer shell.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			nav := shell.NavigateContext(ctx, args[0])
			if err := shell.Resolve(ctx); err != nil {
				return fmt.Errorf("resolve %s: %w", nav.Location, err)
			}

			renderer := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			out := cmd.OutOrStdout()
			if page {
				return renderer.RenderPage(out, render.PageData{
					Title: title,
					Lang:  a.config.Server.Lang,
					Body:  hostbridge.Chrome(crumbs, shell.Render(ctx)),
				})
			}

			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "location: %s\n", nav.Location)
			if nav.Redirected {
				fmt.Fprintf(errOut, "redirected from: %s\n", nav.Requested)
			}
			if title != "" {
				fmt.Fprintf(errOut, "title: %s\n", title)
			}
			for _, c := range crumbs {
				fmt.Fprintf(errOut, "crumb: %s %s\n", c.Label, c.URL)
			}
			if err := renderer.RenderToWriter(out, shell.Render(ctx)); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if nav.NotFound {
				return fmt.Errorf("no route matches %s", nav.Requested)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&page, "page", false, "Render a complete HTML document")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout for lazy content")

	return cmd
}
