// Package report renders validation verdicts for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/dpcheck/internal/validator"
	"gopkg.in/yaml.v3"
)

// Format selects how verdicts are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Entry is the verdict for one input.
type Entry struct {
	Source             string `json:"source" yaml:"source"`
	*validator.Verdict `yaml:",inline"`
}

// Write renders entries in format f.
func Write(w io.Writer, f Format, entries []Entry) error {
	return render(w, f, entries, func(b *strings.Builder) {
		for _, e := range entries {
			writeEntryText(b, e)
		}
	})
}

func writeEntryText(b *strings.Builder, e Entry) {
	status := "PASS"
	if !e.Accepted {
		status = "FAIL"
	}
	fmt.Fprintf(b, "%s %s", status, e.Source)
	if e.Usage != nil {
		fmt.Fprintf(b, " usage %s", e.Usage)
	}
	if e.Budget != nil {
		fmt.Fprintf(b, " budget %s", e.Budget)
	}
	if e.Neighboring != "" {
		fmt.Fprintf(b, " under %s", e.Neighboring)
	}
	if e.GroupSize > 1 {
		fmt.Fprintf(b, " group %d", e.GroupSize)
	}
	b.WriteString("\n")

	for _, m := range e.Mechanisms {
		fmt.Fprintf(b, "  mechanism %s (%s): %s", m.Node, m.Family, m.Usage)
		if m.Stability != 1 {
			fmt.Fprintf(b, " stability %g", m.Stability)
		}
		if len(m.Ancestry) > 0 {
			fmt.Fprintf(b, " reads %s", strings.Join(m.Ancestry, ", "))
		}
		b.WriteString("\n")
	}
	for _, d := range e.Diagnostics {
		fmt.Fprintf(b, "  %s\n", d.Error())
	}
}

// UsageEntry is the consumed budget of one input.
type UsageEntry struct {
	Source  string   `json:"source" yaml:"source"`
	Epsilon *float64 `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
	Delta   *float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// WriteUsage renders only the consumed budget of each entry. Entries whose
// accounting did not complete carry their first diagnostic instead.
func WriteUsage(w io.Writer, f Format, entries []Entry) error {
	usages := make([]UsageEntry, 0, len(entries))
	for _, e := range entries {
		u := UsageEntry{Source: e.Source}
		if e.Usage != nil {
			eps, delta := e.Usage.Epsilon, e.Usage.Delta
			u.Epsilon, u.Delta = &eps, &delta
		} else {
			u.Error = firstDiagnostic(e)
		}
		usages = append(usages, u)
	}

	return render(w, f, usages, func(b *strings.Builder) {
		for _, u := range usages {
			if u.Epsilon != nil {
				fmt.Fprintf(b, "%s\tepsilon=%g\tdelta=%g\n", u.Source, *u.Epsilon, *u.Delta)
			} else {
				fmt.Fprintf(b, "%s\t%s\n", u.Source, u.Error)
			}
		}
	})
}

// AccuracyEntry is the noise accuracy of one mechanism: with probability
// 1 - Alpha its noise stays within +/- Accuracy.
type AccuracyEntry struct {
	Source   string   `json:"source" yaml:"source"`
	Node     string   `json:"node,omitempty" yaml:"node,omitempty"`
	Family   string   `json:"family,omitempty" yaml:"family,omitempty"`
	Alpha    float64  `json:"alpha" yaml:"alpha"`
	Accuracy *float64 `json:"accuracy,omitempty" yaml:"accuracy,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// WriteAccuracy renders one row per accounted mechanism with its accuracy at
// alpha. Entries whose accounting did not complete carry their first
// diagnostic instead.
func WriteAccuracy(w io.Writer, f Format, entries []Entry, alpha float64) error {
	var rows []AccuracyEntry
	for _, e := range entries {
		if e.Usage == nil {
			rows = append(rows, AccuracyEntry{Source: e.Source, Alpha: alpha, Error: firstDiagnostic(e)})
			continue
		}
		for _, m := range e.Mechanisms {
			row := AccuracyEntry{Source: e.Source, Node: m.Node, Family: m.Family, Alpha: alpha}
			if acc, err := m.Accuracy(alpha); err != nil {
				row.Error = err.Error()
			} else {
				row.Accuracy = &acc
			}
			rows = append(rows, row)
		}
	}

	return render(w, f, rows, func(b *strings.Builder) {
		for _, r := range rows {
			switch {
			case r.Accuracy != nil:
				fmt.Fprintf(b, "%s\t%s (%s)\talpha=%g\taccuracy=%g\n", r.Source, r.Node, r.Family, r.Alpha, *r.Accuracy)
			case r.Node != "":
				fmt.Fprintf(b, "%s\t%s (%s)\t%s\n", r.Source, r.Node, r.Family, r.Error)
			default:
				fmt.Fprintf(b, "%s\t%s\n", r.Source, r.Error)
			}
		}
	})
}

// Calibration is the scale and privacy cost that give a mechanism family a
// requested accuracy.
type Calibration struct {
	Family      string  `json:"family" yaml:"family"`
	Sensitivity float64 `json:"sensitivity" yaml:"sensitivity"`
	Accuracy    float64 `json:"accuracy" yaml:"accuracy"`
	Alpha       float64 `json:"alpha" yaml:"alpha"`
	Scale       float64 `json:"scale" yaml:"scale"`
	Epsilon     float64 `json:"epsilon" yaml:"epsilon"`
	Delta       float64 `json:"delta" yaml:"delta"`
}

// WriteCalibration renders c in format f.
func WriteCalibration(w io.Writer, f Format, c Calibration) error {
	return render(w, f, c, func(b *strings.Builder) {
		fmt.Fprintf(b, "%s sensitivity=%g accuracy=%g alpha=%g\tscale=%g\tepsilon=%g\tdelta=%g\n",
			c.Family, c.Sensitivity, c.Accuracy, c.Alpha, c.Scale, c.Epsilon, c.Delta)
	})
}

func firstDiagnostic(e Entry) string {
	if len(e.Diagnostics) == 0 {
		return ""
	}
	return e.Diagnostics[0].Error()
}

// render encodes v as JSON or YAML, or writes the text produced by text.
func render(w io.Writer, f Format, v any, text func(*strings.Builder)) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		var b strings.Builder
		text(&b)
		_, err := io.WriteString(w, b.String())
		return err
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}
