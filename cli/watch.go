package cli

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/abiiranathan/twigcheck/watch"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-run the audit whenever templates, sources or the registry change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.closer.Close()
			out := cmd.OutOrStdout()

			// A failed run is printed and the watcher keeps going; the
			// registry or roots may appear later.
			rerun := func(ctx context.Context) {
				_, _ = check(ctx, s, out)
			}
			rerun(cmd.Context())

			return watch.Run(cmd.Context(), watchOptions(s), rerun)
		},
	}
	addReportFlags(cmd.Flags())
	return cmd
}

// watchOptions watches the template and source roots recursively and the
// registry's directory flat, reacting to files any of them cares about.
func watchOptions(s *session) watch.Options {
	cfg := s.cfg
	registryPath := cfg.Registry
	if !filepath.IsAbs(registryPath) {
		registryPath = filepath.Join(cfg.Root, registryPath)
	}

	var recursive []string
	for _, dir := range append(append([]string{}, cfg.TemplateDirs...), cfg.SourceDir) {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.Root, dir)
		}
		recursive = append(recursive, dir)
	}

	source, template := cfg.Patterns()
	return watch.Options{
		Recursive: recursive,
		Flat:      []string{filepath.Dir(registryPath)},
		Exclude:   cfg.ExcludeDirs,
		Match:     matcher(registryPath, source, template),
		Logger:    s.logger,
	}
}

func matcher(registryPath string, patterns ...*regexp.Regexp) func(string) bool {
	return func(path string) bool {
		if path == registryPath {
			return true
		}
		base := filepath.Base(path)
		for _, p := range patterns {
			if p.MatchString(base) {
				return true
			}
		}
		return false
	}
}
