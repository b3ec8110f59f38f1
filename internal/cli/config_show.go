package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskflow/internal/config"
	"github.com/mrz1836/taskflow/internal/logging"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect taskflow configuration",
	}
	cmd.AddCommand(newConfigShowCmd(flags))
	root.AddCommand(cmd)
}

func newConfigShowCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective taskflow configuration with source annotations.

Each value shows where it comes from:
  - default: Built-in default value
  - global: From ~/.taskflow/config.yaml
  - project: From .taskflow/config.yaml
  - env: From a TASKFLOW_* environment variable

Credentials in cache.redis_url are masked.

Examples:
  taskflow config show
  taskflow config show --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), flags.Output)
		},
	}
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// AnnotatedConfig represents configuration with source annotations.
type AnnotatedConfig struct {
	Store    map[string]ConfigValueWithSource `json:"store" yaml:"store"`
	Cache    map[string]ConfigValueWithSource `json:"cache" yaml:"cache"`
	Workflow map[string]ConfigValueWithSource `json:"workflow" yaml:"workflow"`
	Tasks    map[string]ConfigValueWithSource `json:"tasks" yaml:"tasks"`
}

// configSection is one printed section with its keys in display order.
type configSection struct {
	name   string
	keys   []string
	values map[string]ConfigValueWithSource
}

func (a *AnnotatedConfig) sections() []configSection {
	return []configSection{
		{"store", []string{"driver", "path"}, a.Store},
		{"cache", []string{"enabled", "redis_url", "ttl", "max_active", "max_idle", "idle_timeout"}, a.Cache},
		{"workflow", []string{"default_industry", "custom_dir"}, a.Workflow},
		{"tasks", []string{"cascade_policy", "max_ancestor_depth"}, a.Tasks},
	}
}

// configShowStyles contains styling for the config show command output.
type configShowStyles struct {
	header    lipgloss.Style
	section   lipgloss.Style
	key       lipgloss.Style
	sourceEnv lipgloss.Style
	sourcePrj lipgloss.Style
	sourceGbl lipgloss.Style
	sourceDef lipgloss.Style
	dim       lipgloss.Style
}

func newConfigShowStyles() *configShowStyles {
	return &configShowStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D7FF")),
		section:   lipgloss.NewStyle().Bold(true),
		key:       lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF")),
		sourceEnv: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		sourcePrj: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		sourceGbl: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF87")),
		sourceDef: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

func runConfigShow(ctx context.Context, w io.Writer, format string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	annotated := buildAnnotatedConfig(cfg)

	if format == OutputJSON {
		out := &printer{w: w, format: format}
		return out.encode(annotated)
	}
	checkNoColor()
	printAnnotatedConfig(w, annotated)
	return nil
}

// buildAnnotatedConfig pairs every effective value with the layer it came from.
func buildAnnotatedConfig(cfg *config.Config) *AnnotatedConfig {
	globalPath, _ := config.GlobalConfigPath()
	globalCfg := loadConfigFile(globalPath)
	projectCfg := loadConfigFile(config.ProjectConfigPath())

	src := func(key string, value any) ConfigValueWithSource {
		return determineSource(key, value, globalCfg, projectCfg)
	}

	return &AnnotatedConfig{
		Store: map[string]ConfigValueWithSource{
			"driver": src("store.driver", cfg.Store.Driver),
			"path":   src("store.path", cfg.Store.Path),
		},
		Cache: map[string]ConfigValueWithSource{
			"enabled":      src("cache.enabled", cfg.Cache.Enabled),
			"redis_url":    src("cache.redis_url", logging.SafeValue("redis_url", cfg.Cache.RedisURL)),
			"ttl":          src("cache.ttl", cfg.Cache.TTL.String()),
			"max_active":   src("cache.max_active", cfg.Cache.MaxActive),
			"max_idle":     src("cache.max_idle", cfg.Cache.MaxIdle),
			"idle_timeout": src("cache.idle_timeout", cfg.Cache.IdleTimeout.String()),
		},
		Workflow: map[string]ConfigValueWithSource{
			"default_industry": src("workflow.default_industry", cfg.Workflow.DefaultIndustry),
			"custom_dir":       src("workflow.custom_dir", cfg.Workflow.CustomDir),
		},
		Tasks: map[string]ConfigValueWithSource{
			"cascade_policy":     src("tasks.cascade_policy", cfg.Tasks.CascadePolicy),
			"max_ancestor_depth": src("tasks.max_ancestor_depth", cfg.Tasks.MaxAncestorDepth),
		},
	}
}

// configValues holds the dotted keys a config file sets.
type configValues map[string]bool

// loadConfigFile returns the dotted keys set in a YAML config file, or nil
// when the file is missing or unreadable.
func loadConfigFile(path string) configValues {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // Config file path
	if err != nil {
		return nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}

	keys := make(configValues)
	for section, body := range raw {
		fields, ok := body.(map[string]any)
		if !ok {
			keys[section] = true
			continue
		}
		for key := range fields {
			keys[section+"."+key] = true
		}
	}
	return keys
}

// determineSource reports which layer supplied key. Empty env vars are
// skipped the same way config loading skips them.
func determineSource(key string, value any, globalCfg, projectCfg configValues) ConfigValueWithSource {
	envKey := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if os.Getenv(envKey) != "" {
		return ConfigValueWithSource{Value: value, Source: SourceEnv}
	}
	if projectCfg[key] {
		return ConfigValueWithSource{Value: value, Source: SourceProject}
	}
	if globalCfg[key] {
		return ConfigValueWithSource{Value: value, Source: SourceGlobal}
	}
	return ConfigValueWithSource{Value: value, Source: SourceDefault}
}

func printAnnotatedConfig(w io.Writer, annotated *AnnotatedConfig) {
	styles := newConfigShowStyles()

	_, _ = fmt.Fprintln(w, styles.header.Render("Effective taskflow configuration"))
	_, _ = fmt.Fprintln(w, styles.dim.Render("Sources: ")+
		styles.sourceEnv.Render("env")+" > "+
		styles.sourcePrj.Render("project")+" > "+
		styles.sourceGbl.Render("global")+" > "+
		styles.sourceDef.Render("default"))
	_, _ = fmt.Fprintln(w)

	for _, sec := range annotated.sections() {
		_, _ = fmt.Fprintln(w, styles.section.Render(sec.name+":"))
		for _, key := range sec.keys {
			vs := sec.values[key]
			_, _ = fmt.Fprintf(w, "  %s: %s  %s\n",
				styles.key.Render(key),
				formatConfigValue(vs.Value),
				sourceStyle(vs.Source, styles).Render("# "+string(vs.Source)))
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, styles.dim.Render("Configuration files:"))
	if globalPath, err := config.GlobalConfigPath(); err == nil {
		_, _ = fmt.Fprintln(w, styles.dim.Render("  Global:  ")+describePath(globalPath))
	}
	projectPath, _ := filepath.Abs(config.ProjectConfigPath())
	_, _ = fmt.Fprintln(w, styles.dim.Render("  Project: ")+describePath(projectPath))
}

func describePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path + " (not found)"
	}
	return path
}

// formatConfigValue converts a configuration value to a displayable string.
func formatConfigValue(value any) string {
	if s, ok := value.(string); ok {
		if s == "" {
			return "(not set)"
		}
		return s
	}
	return fmt.Sprintf("%v", value)
}

func sourceStyle(source ConfigSource, styles *configShowStyles) lipgloss.Style {
	switch source {
	case SourceEnv:
		return styles.sourceEnv
	case SourceProject:
		return styles.sourcePrj
	case SourceGlobal:
		return styles.sourceGbl
	default:
		return styles.sourceDef
	}
}
