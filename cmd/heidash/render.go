package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/heiportal/heidash/internal/chart"
	"github.com/heiportal/heidash/internal/termview"
)

// renderInput is the document accepted by `heidash render`: either a bare
// {"SUC": 50, ...} object or {"data": {...}, "categories": [...]}.
type renderInput struct {
	Data       map[string]float64     `json:"data"`
	Categories []chart.CategoryConfig `json:"categories,omitempty"`
}

// parseRenderInput decodes r into counts and an optional category list.
func parseRenderInput(r io.Reader) (renderInput, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return renderInput{}, fmt.Errorf("read input: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return renderInput{}, errors.New("input is empty")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return renderInput{}, fmt.Errorf("input must be a JSON object: %w", err)
	}

	var in renderInput
	if _, wrapped := probe["data"]; wrapped {
		if err := json.Unmarshal(raw, &in); err != nil {
			return renderInput{}, fmt.Errorf("decode input: %w", err)
		}
	} else if err := json.Unmarshal(raw, &in.Data); err != nil {
		return renderInput{}, fmt.Errorf("decode counts: %w", err)
	}

	if in.Data == nil {
		in.Data = map[string]float64{}
	}
	if len(in.Categories) > 0 {
		if err := chart.Validate(in.Categories); err != nil {
			return renderInput{}, err
		}
	}
	return in, nil
}

// writeDonut encodes d to w in the named format.
func writeDonut(w io.Writer, d chart.Donut, format string) error {
	switch strings.ToLower(format) {
	case "svg":
		_, err := io.WriteString(w, chart.SVG(d)+"\n")
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "text":
		_, err := io.WriteString(w, termview.New(w).Render(d)+"\n")
		return err
	default:
		return fmt.Errorf("unknown format %q (want svg, json or text)", format)
	}
}

// --- Render Command ---

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render a donut from category counts",
	Long: `Render a donut chart from a JSON object of category counts, e.g.

  {"SUC": 112, "LUC": 101, "Private": 1729}

or {"data": {...}, "categories": [...]} to override the categories.
Reads stdin when the file is "-" or omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		var src io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			src = f
		}

		in, err := parseRenderInput(src)
		if err != nil {
			return err
		}

		opts := cfg.ChartOptions()
		if len(in.Categories) > 0 {
			opts.Categories = in.Categories
		}
		d := chart.Render(in.Data, opts)
		log.Debug("donut rendered",
			zap.Float64("total", d.Total),
			zap.Int("segments", len(d.Segments)),
			zap.Bool("empty", d.IsEmpty()))

		out := cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := writeDonut(out, d, format); err != nil {
			return err
		}
		if outPath != "" {
			log.Info("wrote chart", zap.String("path", outPath), zap.String("format", format))
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("format", "f", "text", "output format: svg, json or text")
	renderCmd.Flags().StringP("out", "o", "", "write to file instead of stdout")
}

// --- Categories Command ---

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the default category configuration as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(chart.DefaultCategories())
	},
}
