package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specmock/specmock/internal/contract"
	"github.com/specmock/specmock/internal/export"
	"github.com/specmock/specmock/internal/merge"
)

type exportConfig struct {
	Specs  []string
	Out    string
	Format string
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Merge API descriptions and write the unified document",
		Example: strings.TrimSpace(`  specmock export --spec users.yaml --spec billing.yaml --out merged.yaml
  specmock export --spec api.yaml --format json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveExportConfig(cmd)
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cmd, cfg)
		},
	}
	cmd.Flags().StringSlice("spec", nil, "Path or URL of an API description (repeatable)")
	cmd.Flags().String("out", "", "Output file (stdout when omitted)")
	cmd.Flags().String("format", "yaml", "Output format (yaml|json)")
	return cmd
}

func resolveExportConfig(cmd *cobra.Command) (*exportConfig, error) {
	specs, err := cmd.Flags().GetStringSlice("spec")
	if err != nil {
		return nil, err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg := &exportConfig{
		Specs:  trimAll(specs),
		Out:    strings.TrimSpace(out),
		Format: strings.ToLower(strings.TrimSpace(format)),
	}
	if len(cfg.Specs) == 0 {
		return nil, newUsageError("export: at least one --spec is required")
	}
	switch cfg.Format {
	case "", "yaml":
		cfg.Format = "yaml"
	case "json":
	default:
		return nil, newUsageError(fmt.Sprintf("export: unsupported --format %q (allowed: yaml, json)", cfg.Format))
	}
	return cfg, nil
}

func runExport(ctx context.Context, cmd *cobra.Command, cfg *exportConfig) error {
	docs := make([]*contract.Document, 0, len(cfg.Specs))
	for _, src := range cfg.Specs {
		doc, err := contract.Load(ctx, src)
		if err != nil {
			return fmt.Errorf("load %s: %w", src, err)
		}
		docs = append(docs, doc)
	}
	unified, warnings := merge.Merge(docs)
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	var w io.Writer = cmd.OutOrStdout()
	if cfg.Out != "" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", cfg.Out, err)
		}
		defer f.Close()
		w = f
	}
	if cfg.Format == "json" {
		return export.WriteJSON(w, unified)
	}
	return export.WriteYAML(w, unified)
}
