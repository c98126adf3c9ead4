// internal/report/report.go
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"mcp-max-protein/internal/models"
	"mcp-max-protein/internal/timing"
)

// Format selects how results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", name)
	}
}

// WriteSelection prints each food, then the selection totals.
func WriteSelection(w io.Writer, sel models.Selection) error {
	for _, food := range sel {
		if _, err := fmt.Fprintf(w, "%s (100 g where each %s is %d g) kcal=%d protein=%d g\n",
			food.Description, food.ServingLabel, food.ServingGrams,
			food.EnergyKcal, food.ProteinGrams); err != nil {
			return err
		}
	}

	t := sel.Totals()
	_, err := fmt.Fprintf(w, "total kcal=%d total_protein=%d g\n", t.EnergyKcal, t.ProteinGrams)
	return err
}

// Write renders any number of results in the given format.
func Write(w io.Writer, format Format, results ...*models.Result) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, unwrap(results))
	case FormatYAML:
		return writeYAML(w, unwrap(results))
	case FormatText:
		for i, res := range results {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%s solution (n=%d, budget=%d kcal):\n",
				res.Algorithm, res.CandidateCount, res.BudgetKcal); err != nil {
				return err
			}
			if err := WriteSelection(w, res.Selection); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "elapsed time = %.6f seconds\n", res.Elapsed.Seconds()); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteTimings renders a timing sweep.
func WriteTimings(w io.Writer, format Format, measurements []timing.Measurement) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, measurements)
	case FormatYAML:
		return writeYAML(w, measurements)
	case FormatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "N\tBUDGET\tGREEDY PROTEIN\tGREEDY SECONDS\tEXHAUSTIVE PROTEIN\tEXHAUSTIVE SECONDS")
		for _, m := range measurements {
			exProtein, exSeconds := "skipped", "-"
			if m.Exhaustive != nil {
				exProtein = fmt.Sprintf("%d", m.Exhaustive.ProteinGrams)
				exSeconds = fmt.Sprintf("%.6f", m.Exhaustive.Elapsed.Seconds())
			}
			fmt.Fprintf(tw, "%d\t%d\t%d\t%.6f\t%s\t%s\n",
				m.CandidateCount, m.BudgetKcal,
				m.Greedy.ProteinGrams, m.Greedy.Elapsed.Seconds(),
				exProtein, exSeconds)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// unwrap keeps single results unwrapped so one-shot output is a plain object.
func unwrap(results []*models.Result) interface{} {
	if len(results) == 1 {
		return results[0]
	}
	return results
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
