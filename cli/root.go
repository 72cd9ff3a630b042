// Package cli implements the twigcheck command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abiiranathan/twigcheck/audit"
	"github.com/abiiranathan/twigcheck/config"
	"github.com/abiiranathan/twigcheck/internal/logging"
	"github.com/abiiranathan/twigcheck/report"
)

// Version is set at build time.
var Version = "1.0.0"

// ErrFindings is returned by check when --fail-on-orphans is set and the
// audit found something.
var ErrFindings = errors.New("findings reported")

// errReported marks an error already printed to the console.
type errReported struct{ err error }

func (e errReported) Error() string { return e.err.Error() }
func (e errReported) Unwrap() error { return e.err }

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"config":          config.KeyConfig,
	"registry":        config.KeyRegistry,
	"template-dir":    config.KeyTemplateDirs,
	"exclude-dir":     config.KeyExcludeDirs,
	"source-dir":      config.KeySourceDir,
	"depth":           config.KeyDepth,
	"transitive":      config.KeyTransitive,
	"scan-templates":  config.KeyScanTemplates,
	"verbose":         config.KeyVerbose,
	"format":          config.KeyFormat,
	"compress":        config.KeyCompress,
	"fail-on-orphans": config.KeyFailOnOrphans,
	"log-file":        config.KeyLogFile,
	"addr":            config.KeyAddr,
}

// NewRootCommand builds the command tree. Running the root command is the
// same as running "check".
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "twigcheck <path>",
		Short: "Find orphan templates and invalid template references",
		Long: `twigcheck reads the template path registry of a project, finds every
template file under app/, src/ and templates/, scans the source code for
template names, and reports template files nothing references as well as
references to templates the registry does not know.`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runCheck,
	}

	pf := root.PersistentFlags()
	pf.BoolP("verbose", "v", false, "trace every step, file and match")
	pf.String("config", "", "config file (default: <path>/.twigcheck.yaml if present)")
	pf.String("registry", "", "registry artifact, relative to <path> (default "+config.Default().Registry+")")
	pf.StringSlice("template-dir", nil, "candidate template directories (default app,src,templates)")
	pf.StringSlice("exclude-dir", nil, "directory names not descended into while scanning (default none)")
	pf.String("source-dir", "", "source directory scanned for references (default src)")
	pf.Int("depth", 1, "hops followed through template contents (-1 for unlimited)")
	pf.Bool("transitive", false, "follow references through templates until nothing new is reached")
	pf.Bool("scan-templates", false, "also scan every template file for references")
	pf.String("log-file", "", "write diagnostic logs to this file")

	f := root.Flags()
	addReportFlags(f)

	check := &cobra.Command{
		Use:   "check <path>",
		Short: "Audit a project once and print the report",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	addReportFlags(check.Flags())

	root.AddCommand(check, newServeCommand(), newWatchCommand())
	return root
}

func addReportFlags(f *pflag.FlagSet) {
	f.String("format", config.FormatText, "output format: text or json")
	f.Bool("compress", false, "gzip the JSON output")
	f.Bool("fail-on-orphans", false, "exit with status 1 when anything is found")
}

// loadConfig resolves the config for the project at path, with the flags
// that were set on cmd taking precedence.
func loadConfig(cmd *cobra.Command, path string) (config.Config, error) {
	v := viper.New()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return config.Config{}, bindErr
	}
	return config.Load(v, path)
}

// session is what every subcommand needs for one invocation.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func newSession(cmd *cobra.Command, path string) (*session, error) {
	cfg, err := loadConfig(cmd, path)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &session{cfg: cfg, logger: logger, closer: closer}, nil
}

func (s *session) runner(tr audit.Tracer) *audit.Runner {
	return &audit.Runner{Config: s.cfg, Tracer: tr, Logger: s.logger}
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.closer.Close()

	rep, err := check(cmd.Context(), s, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if s.cfg.FailOnOrphans && len(rep.Issues) > 0 {
		return ErrFindings
	}
	return nil
}

// check runs one audit and writes it to out in the configured format.
func check(ctx context.Context, s *session, out io.Writer) (*audit.Report, error) {
	if s.cfg.Format == config.FormatJSON {
		rep, err := s.runner(audit.NopTracer).Run(ctx)
		if err != nil {
			return nil, err
		}
		return rep, report.WriteJSON(out, rep, s.cfg.Compress)
	}

	console := report.NewConsole(out, s.cfg.Verbose)
	console.Title("Twig check")
	rep, err := s.runner(console).Run(ctx)
	if err != nil {
		console.Error("%s, aborting", err)
		return nil, errReported{err}
	}
	console.Report(rep)
	return rep, nil
}
