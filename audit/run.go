package audit

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/abiiranathan/twigcheck/config"
	"github.com/abiiranathan/twigcheck/discovery"
	"github.com/abiiranathan/twigcheck/internal/fsutil"
	"github.com/abiiranathan/twigcheck/registry"
)

// Fatal errors of a run. Both abort before any finding is produced.
var (
	ErrRegistryMissing = registry.ErrRegistryMissing
	ErrRootsMissing    = discovery.ErrRootsMissing
)

// Runner audits one project according to a Config.
type Runner struct {
	Config config.Config
	// Tracer receives progress; nil means none.
	Tracer Tracer
	// Reader reads source and template files; nil means the filesystem.
	Reader Reader
	// Logger receives diagnostics; nil means slog.Default().
	Logger *slog.Logger
}

// Run loads the registry, discovers the template and source files, and
// reconciles them.
//
// It returns an error wrapping ErrRegistryMissing when the registry artifact
// is absent, and ErrRootsMissing when no template root or the source root
// does not exist. Unreadable source files are skipped.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	cfg := r.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Registry == "" {
		cfg.Registry = registry.DefaultArtifact
	}
	tr := r.Tracer
	if tr == nil {
		tr = NopTracer
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reader := r.Reader
	if reader == nil {
		reader = ReaderFunc(fsutil.ReadText)
	}
	files := newContentCache(reader)
	sourcePattern, templatePattern := cfg.Patterns()

	tr.Note("Reading templates...")

	registryPath := cfg.Registry
	if !filepath.IsAbs(registryPath) {
		registryPath = filepath.Join(cfg.Root, registryPath)
	}
	reg, err := registry.Load(cfg.Root, cfg.Registry)
	if err != nil {
		logger.Error("registry load failed", "path", registryPath, "err", err)
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}
	tr.Comment("Read templates file : %s", registryPath)
	tr.Comment("Make paths canonical")
	logger.Debug("registry loaded", "path", registryPath, "entries", reg.Len(), "missing", len(reg.Missing()))

	tr.Note("Locating twig files...")
	tr.Comment("Checking validity for directories to scan...")
	roots, err := discovery.ExistingRoots(cfg.Root, cfg.TemplateDirs)
	if err != nil {
		logger.Error("no template roots", "root", cfg.Root, "candidates", cfg.TemplateDirs)
		return nil, fmt.Errorf("failed to locate any twig directories: %w", err)
	}
	tr.Comment("Directories to scan : %s", strings.Join(roots, ", "))

	templates, err := discovery.Discover(ctx, roots, templatePattern, cfg.ExcludeDirs...)
	if err != nil {
		return nil, fmt.Errorf("discover templates: %w", err)
	}
	tr.Note("%d template files found", len(templates))

	tr.Comment("Checking src directory validity...")
	sourceRoot, err := discovery.RequireRoot(cfg.Root, cfg.SourceDir)
	if err != nil {
		logger.Error("source root missing", "root", cfg.Root, "dir", cfg.SourceDir)
		return nil, fmt.Errorf("failed to locate src directory: %w", err)
	}
	tr.Comment("Found directory : %s", sourceRoot)

	sourcePaths, err := discovery.Discover(ctx, []string{sourceRoot}, sourcePattern, cfg.ExcludeDirs...)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}
	if cfg.ScanTemplates {
		sourcePaths = appendUnique(sourcePaths, templates)
	}

	tr.Comment("Iterating over files in %s...", sourceRoot)
	sources := make([]Document, 0, len(sourcePaths))
	for _, p := range sourcePaths {
		content, err := files.Read(p)
		if err != nil {
			logger.Warn("skipping unreadable source", "path", p, "err", err)
			tr.Comment("[✘] Unreadable : %s", p)
			continue
		}
		sources = append(sources, Document{Path: p, Content: content})
	}

	engine := &Engine{
		Registry: reg,
		Reader:   files,
		Depth:    cfg.EffectiveDepth(),
		Tracer:   tr,
	}
	result := engine.Reconcile(templates, sources)

	logger.Info("audit complete",
		"root", cfg.Root,
		"templates", len(templates),
		"sources", len(sources),
		"orphans", len(result.Orphans),
		"invalid", len(result.Invalid),
		"broken", len(result.Broken),
	)

	return &Report{
		Root:          cfg.Root,
		Registry:      registryPath,
		RegistrySize:  reg.Len(),
		TemplateRoots: roots,
		SourceRoot:    sourceRoot,
		Templates:     len(templates),
		Sources:       len(sources),
		Depth:         engine.Depth,
		Result:        result,
		Issues:        result.Findings(),
	}, nil
}

// appendUnique appends the elements of extra not already in list.
func appendUnique(list, extra []string) []string {
	seen := make(map[string]bool, len(list))
	for _, p := range list {
		seen[p] = true
	}
	for _, p := range extra {
		if !seen[p] {
			seen[p] = true
			list = append(list, p)
		}
	}
	return list
}
