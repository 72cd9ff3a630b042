// Package config holds the settings of an audit run and loads them from
// defaults, an optional project config file, the environment and CLI flags.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/abiiranathan/twigcheck/registry"
)

// Config keys, shared by viper, config files and flag bindings.
const (
	KeyConfig          = "config"
	KeyRegistry        = "registry"
	KeyTemplateDirs    = "template_dirs"
	KeyExcludeDirs     = "exclude_dirs"
	KeySourceDir       = "source_dir"
	KeySourcePattern   = "source_pattern"
	KeyTemplatePattern = "template_pattern"
	KeyDepth           = "depth"
	KeyTransitive      = "transitive"
	KeyScanTemplates   = "scan_templates"
	KeyVerbose         = "verbose"
	KeyFormat          = "format"
	KeyCompress        = "compress"
	KeyFailOnOrphans   = "fail_on_orphans"
	KeyLogFile         = "log_file"
	KeyAddr            = "addr"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// EnvPrefix prefixes environment overrides, e.g. TWIGCHECK_DEPTH=2.
const EnvPrefix = "TWIGCHECK"

// FileName is the config file base name looked up in the project root.
const FileName = ".twigcheck"

// Config is the full set of options for one audit run.
type Config struct {
	// Root is the project directory being audited.
	Root string `mapstructure:"-"`
	// Registry is the registry artifact, relative to Root unless absolute.
	Registry string `mapstructure:"registry"`
	// TemplateDirs are the candidate template roots; missing ones are skipped.
	TemplateDirs []string `mapstructure:"template_dirs"`
	// ExcludeDirs are directory base names never descended into below a
	// root. Empty by default: every file under the roots is discovered.
	ExcludeDirs []string `mapstructure:"exclude_dirs"`
	// SourceDir is the mandatory source root.
	SourceDir string `mapstructure:"source_dir"`
	// SourcePattern selects source files by base name.
	SourcePattern string `mapstructure:"source_pattern"`
	// TemplatePattern selects template files by base name.
	TemplatePattern string `mapstructure:"template_pattern"`
	// Depth is the number of hops followed through template contents.
	// 0 disables indirection, a negative value follows references to a fixed point.
	Depth int `mapstructure:"depth"`
	// Transitive overrides Depth with a full transitive closure.
	Transitive bool `mapstructure:"transitive"`
	// ScanTemplates adds the discovered templates to the scanned sources.
	ScanTemplates bool `mapstructure:"scan_templates"`

	Verbose       bool   `mapstructure:"verbose"`
	Format        string `mapstructure:"format"`
	Compress      bool   `mapstructure:"compress"`
	FailOnOrphans bool   `mapstructure:"fail_on_orphans"`
	LogFile       string `mapstructure:"log_file"`
	Addr          string `mapstructure:"addr"`
}

// Default returns the settings matching a standard Symfony project layout.
func Default() Config {
	return Config{
		Registry:        registry.DefaultArtifact,
		TemplateDirs:    []string{"app", "src", "templates"},
		ExcludeDirs:     []string{},
		SourceDir:       "src",
		SourcePattern:   `\.php$`,
		TemplatePattern: `\.twig$`,
		Depth:           1,
		Format:          FormatText,
		Addr:            ":8080",
	}
}

// SetDefaults registers Default() on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyRegistry, d.Registry)
	v.SetDefault(KeyTemplateDirs, d.TemplateDirs)
	v.SetDefault(KeyExcludeDirs, d.ExcludeDirs)
	v.SetDefault(KeySourceDir, d.SourceDir)
	v.SetDefault(KeySourcePattern, d.SourcePattern)
	v.SetDefault(KeyTemplatePattern, d.TemplatePattern)
	v.SetDefault(KeyDepth, d.Depth)
	v.SetDefault(KeyTransitive, d.Transitive)
	v.SetDefault(KeyScanTemplates, d.ScanTemplates)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyCompress, d.Compress)
	v.SetDefault(KeyFailOnOrphans, d.FailOnOrphans)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyAddr, d.Addr)
}

// Load resolves the configuration for the project at root.
//
// Precedence, lowest first: defaults, the config file (the one named by the
// "config" key, otherwise .twigcheck.{yaml,yml,toml,json} in root), TWIGCHECK_*
// environment variables, then any flags already bound on v.
// A missing implicit config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, root string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(root)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Root = root

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the patterns compile and the format is known.
func (c Config) Validate() error {
	if _, err := regexp.Compile(c.SourcePattern); err != nil {
		return fmt.Errorf("invalid source pattern: %w", err)
	}
	if _, err := regexp.Compile(c.TemplatePattern); err != nil {
		return fmt.Errorf("invalid template pattern: %w", err)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.SourceDir == "" {
		return errors.New("source directory must be set")
	}
	return nil
}

// EffectiveDepth is Depth, or -1 when Transitive is set.
func (c Config) EffectiveDepth() int {
	if c.Transitive {
		return -1
	}
	return c.Depth
}

// Patterns compiles the source and template patterns. Call Validate first.
func (c Config) Patterns() (source, template *regexp.Regexp) {
	return regexp.MustCompile(c.SourcePattern), regexp.MustCompile(c.TemplatePattern)
}
