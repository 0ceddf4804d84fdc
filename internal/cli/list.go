package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specmock/specmock/internal/contract"
)

type listConfig struct {
	Specs []string
	JSON  bool
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the endpoints declared by API descriptions",
		Example: strings.TrimSpace(`  specmock list --spec petstore.yaml
  specmock list --spec users.yaml --spec billing.yaml --json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveListConfig(cmd)
			if err != nil {
				return err
			}
			return runList(cmd.Context(), cmd, cfg)
		},
	}
	cmd.Flags().StringSlice("spec", nil, "Path or URL of an API description (repeatable)")
	cmd.Flags().Bool("json", false, "Emit JSON instead of a table")
	return cmd
}

func resolveListConfig(cmd *cobra.Command) (*listConfig, error) {
	specs, err := cmd.Flags().GetStringSlice("spec")
	if err != nil {
		return nil, err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg := &listConfig{Specs: trimAll(specs), JSON: jsonOut}
	if len(cfg.Specs) == 0 {
		return nil, newUsageError("list: at least one --spec is required")
	}
	return cfg, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type listedSpec struct {
	Source    string       `json:"source"`
	Title     string       `json:"title"`
	Version   string       `json:"version"`
	Endpoints []listedPath `json:"endpoints"`
}

type listedPath struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
	Summary string   `json:"summary,omitempty"`
}

func runList(ctx context.Context, cmd *cobra.Command, cfg *listConfig) error {
	var out []listedSpec
	for _, src := range cfg.Specs {
		doc, err := contract.Load(ctx, src)
		if err != nil {
			return fmt.Errorf("load %s: %w", src, err)
		}
		listed := listedSpec{Source: src, Title: doc.Info.Title, Version: doc.Info.Version}
		for _, entry := range doc.Paths {
			lp := listedPath{Path: entry.Template}
			for _, m := range entry.DeclaredMethods() {
				lp.Methods = append(lp.Methods, strings.ToUpper(string(m)))
				if lp.Summary == "" {
					lp.Summary = entry.Operation(m).Summary
				}
			}
			listed.Endpoints = append(listed.Endpoints, lp)
		}
		out = append(out, listed)
	}

	w := cmd.OutOrStdout()
	if cfg.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, spec := range out {
		fmt.Fprintf(w, "%s (%s %s)\n", spec.Source, spec.Title, spec.Version)
		for _, ep := range spec.Endpoints {
			fmt.Fprintf(w, "  %-40s %s\n", ep.Path, strings.Join(ep.Methods, ","))
		}
	}
	return nil
}
