package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/contentstore"
	"github.com/vango-dev/shellkit/pkg/manifest"
	"github.com/vango-dev/shellkit/pkg/routes"
)

func checkCmd(configFile *string) *cobra.Command {
	var (
		strict  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the route manifest",
		Long: `Check loads and compiles the manifest, reports every compile
warning and verifies that each lazy content key exists in the
configured content store.

Warnings do not fail the check unless --strict is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report := checkManifest(ctx, a.manifest, a.store)
			return report.print(cmd.OutOrStdout(), strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for content store lookups")

	return cmd
}

// checkReport collects the problems found in a manifest.
type checkReport struct {
	routes   int
	lazy     int
	problems []*errors.ShellError
}

func checkManifest(ctx context.Context, m *manifest.Manifest, store contentstore.Store) *checkReport {
	report := &checkReport{}
	routes.Compile(m.Routes, routes.WithWarnings(func(e *errors.ShellError) {
		report.problems = append(report.problems, e)
	}))
	report.walk(ctx, m.File.Routes, store)
	return report
}

func (r *checkReport) walk(ctx context.Context, entries []manifest.Route, store contentstore.Store) {
	for _, e := range entries {
		r.routes++
		if e.Lazy != "" && e.Content == "" {
			r.lazy++
			r.checkKey(ctx, e, store)
		}
		r.walk(ctx, e.Children, store)
	}
}

func (r *checkReport) checkKey(ctx context.Context, e manifest.Route, store contentstore.Store) {
	if store == nil {
		return
	}
	ok, err := store.Exists(ctx, e.Lazy)
	switch {
	case err != nil:
		r.problems = append(r.problems, errors.FromError(err, "S002"))
	case !ok:
		r.problems = append(r.problems, errors.New("S001").
			WithDetail(fmt.Sprintf("Lazy content %q of the route on line %d is missing.", e.Lazy, e.Line())).
			WithSuggestion("Upload the fragment or fix the key"))
	}
}

func (r *checkReport) counts() (errs, warnings int) {
	for _, p := range r.problems {
		if p.Severity == errors.SeverityWarning {
			warnings++
		} else {
			errs++
		}
	}
	return errs, warnings
}

func (r *checkReport) print(w io.Writer, strict bool) error {
	for _, p := range r.problems {
		errors.Fprint(w, p)
	}
	errs, warnings := r.counts()
	if errs > 0 || (strict && warnings > 0) {
		return fmt.Errorf("%d error(s), %d warning(s) in %d routes", errs, warnings, r.routes)
	}
	if warnings > 0 {
		warn(w, "%d routes checked, %d warning(s)", r.routes, warnings)
		return nil
	}
	success(w, "%d routes checked, %d lazy", r.routes, r.lazy)
	return nil
}
