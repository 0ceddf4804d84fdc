package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/specmock/specmock/internal/engine"
	"github.com/specmock/specmock/internal/generator"
	"github.com/specmock/specmock/internal/logging"
)

// ServeConfig captures all inputs that influence the serve command after
// merging defaults, config file values, and CLI overrides.
type ServeConfig struct {
	Specs          []string `yaml:"specs"`
	Addr           string   `yaml:"addr"`
	DefaultSpec    string   `yaml:"defaultSpec"`
	PreferExamples bool     `yaml:"preferExamples"`
	CollectionSize int      `yaml:"collectionSize"`
	StringLength   int      `yaml:"stringLength"`
	LogLevel       string   `yaml:"logLevel"`
	LogFormat      string   `yaml:"logFormat"`
}

func defaultServeConfig() ServeConfig {
	gen := generator.DefaultConfig()
	return ServeConfig{
		Addr:           ":4280",
		PreferExamples: gen.PreferExamples,
		CollectionSize: gen.CollectionSize,
		StringLength:   gen.StringLength,
	}
}

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mock responses for one or more API descriptions",
		Example: strings.TrimSpace(`  specmock serve --spec petstore.yaml
  specmock serve --spec users.yaml --spec billing.yaml --addr :9090
  specmock --config specmock.yaml serve`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveServeConfig(cmd)
			if err != nil {
				return err
			}
			return serveRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringSlice("spec", nil, "Path or URL of an API description (repeatable)")
	flags.String("addr", "", "Listen address, e.g. :4280")
	flags.String("default", "", "Spec name served when a request selects none (defaults to the merged union)")
	flags.Bool("prefer-examples", true, "Return literal schema examples instead of generating values")
	flags.Int("collection-size", 0, "Preferred element count for generated arrays")
	flags.Int("string-length", 0, "Default maximum length for generated strings")

	return cmd
}

func resolveServeConfig(cmd *cobra.Command) (*ServeConfig, error) {
	cfg := defaultServeConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath = strings.TrimSpace(configPath); configPath != "" {
		if err := applyConfigFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}
	if err := applyServeFlagOverrides(cmd, &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyConfigFile(cfg *ServeConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return newUsageError(fmt.Sprintf("parse config %s: %v", path, err))
	}
	return nil
}

func applyServeFlagOverrides(cmd *cobra.Command, cfg *ServeConfig) error {
	flags := cmd.Flags()
	if flags.Changed("spec") {
		value, err := flags.GetStringSlice("spec")
		if err != nil {
			return err
		}
		cfg.Specs = value
	}
	if flags.Changed("addr") {
		value, err := flags.GetString("addr")
		if err != nil {
			return err
		}
		cfg.Addr = strings.TrimSpace(value)
	}
	if flags.Changed("default") {
		value, err := flags.GetString("default")
		if err != nil {
			return err
		}
		cfg.DefaultSpec = strings.TrimSpace(value)
	}
	if flags.Changed("prefer-examples") {
		value, err := flags.GetBool("prefer-examples")
		if err != nil {
			return err
		}
		cfg.PreferExamples = value
	}
	if flags.Changed("collection-size") {
		value, err := flags.GetInt("collection-size")
		if err != nil {
			return err
		}
		cfg.CollectionSize = value
	}
	if flags.Changed("string-length") {
		value, err := flags.GetInt("string-length")
		if err != nil {
			return err
		}
		cfg.StringLength = value
	}
	return applyLogFlagOverrides(cmd.Flags(), &cfg.LogLevel, &cfg.LogFormat)
}

func applyLogFlagOverrides(flags *pflag.FlagSet, level, format *string) error {
	if flags.Changed("log-level") {
		value, err := flags.GetString("log-level")
		if err != nil {
			return err
		}
		*level = strings.TrimSpace(value)
	}
	if flags.Changed("log-format") {
		value, err := flags.GetString("log-format")
		if err != nil {
			return err
		}
		*format = strings.TrimSpace(value)
	}
	return nil
}

func (c *ServeConfig) normalize() {
	specs := make([]string, 0, len(c.Specs))
	for _, s := range c.Specs {
		if s = strings.TrimSpace(s); s != "" {
			specs = append(specs, s)
		}
	}
	c.Specs = specs
	c.Addr = strings.TrimSpace(c.Addr)
	c.DefaultSpec = strings.TrimSpace(c.DefaultSpec)
}

func (c *ServeConfig) validate() error {
	if len(c.Specs) == 0 {
		return newUsageError("serve: at least one --spec is required (set via flag or config file)")
	}
	if c.Addr == "" {
		return newUsageError("serve: --addr must not be empty")
	}
	if c.CollectionSize < 0 {
		return newUsageError("serve: --collection-size must not be negative")
	}
	if c.StringLength < 0 {
		return newUsageError("serve: --string-length must not be negative")
	}
	return nil
}

func runServe(ctx context.Context, cfg *ServeConfig) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	srv := engine.New(engine.Options{
		Sources:     cfg.Specs,
		DefaultSpec: cfg.DefaultSpec,
		Generator: generator.Config{
			CollectionSize: cfg.CollectionSize,
			StringLength:   cfg.StringLength,
			PreferExamples: cfg.PreferExamples,
		},
		Logger: log,
	})
	if err := srv.Load(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Addr)
}
