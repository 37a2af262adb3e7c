package analyzer

import (
	"context"
	"encoding/json"
	"log/slog"
)

// complexity collects cyclomatic complexity and the maintainability index
// from radon. Each metric is kept or dropped on its own. When neither run
// yields a metric the structural scan takes over.
func (p *Pipeline) complexity(ctx context.Context, path, source string) ComplexityReport {
	rep := ComplexityReport{Source: SourceExternalTool}
	measured := false

	if out, err := p.run(ctx, p.config.Tools.Complexity, path, ""); err != nil {
		p.logger.Warn("complexity tool unavailable", slog.String("error", err.Error()))
	} else if out.ExitCode == 0 {
		if stats, ok := parseCC(out.Stdout, path); ok {
			rep.AverageComplexity = &stats.average
			rep.MaxComplexity = &stats.max
			rep.FunctionCount = &stats.count
			measured = true
		}
	}

	if out, err := p.run(ctx, p.config.Tools.Maintain, path, ""); err != nil {
		p.logger.Warn("maintainability tool unavailable", slog.String("error", err.Error()))
	} else if out.ExitCode == 0 {
		if mi, ok := parseMI(out.Stdout, path); ok {
			rep.MaintainabilityIndex = &mi
			measured = true
		}
	}

	if !measured {
		return basicComplexity(source)
	}
	return rep
}

// ccBlock is one entry of `radon cc -j`.
type ccBlock struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Complexity float64 `json:"complexity"`
}

type ccStats struct {
	average float64
	max     float64
	count   int
}

// parseCC reads {"<path>": [block, ...]} and aggregates over functions and
// methods. Class blocks repeat their methods' scores and are skipped.
func parseCC(out, path string) (ccStats, bool) {
	var byPath map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &byPath); err != nil {
		return ccStats{}, false
	}
	raw, ok := entryFor(byPath, path)
	if !ok {
		return ccStats{}, false
	}
	var blocks []ccBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		// radon reports per-file failures as {"error": "..."}.
		return ccStats{}, false
	}

	var stats ccStats
	var sum float64
	for _, b := range blocks {
		if b.Type != "" && b.Type != "function" && b.Type != "method" {
			continue
		}
		stats.count++
		sum += b.Complexity
		if b.Complexity > stats.max {
			stats.max = b.Complexity
		}
	}
	if stats.count > 0 {
		stats.average = sum / float64(stats.count)
	}
	return stats, true
}

// parseMI reads {"<path>": {"mi": <score>, ...}}.
func parseMI(out, path string) (float64, bool) {
	var byPath map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &byPath); err != nil {
		return 0, false
	}
	raw, ok := entryFor(byPath, path)
	if !ok {
		return 0, false
	}
	var entry struct {
		MI *float64 `json:"mi"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil || entry.MI == nil {
		return 0, false
	}
	return *entry.MI, true
}

// entryFor looks path up, accepting a lone entry under another key since the
// tool may print the path in a normalised form.
func entryFor(byPath map[string]json.RawMessage, path string) (json.RawMessage, bool) {
	if raw, ok := byPath[path]; ok {
		return raw, true
	}
	if len(byPath) == 1 {
		for _, raw := range byPath {
			return raw, true
		}
	}
	return nil, false
}

// basicComplexity estimates complexity from the source's structure alone.
func basicComplexity(source string) ComplexityReport {
	st, err := ScanStructure(source)
	if err != nil {
		return ComplexityReport{
			Source: SourceBasicFallback,
			Error:  "Basic structure analysis failed: " + err.Error(),
		}
	}
	estimated := st.ControlFlow + st.Functions
	return ComplexityReport{
		FunctionCount:       &st.Functions,
		ClassCount:          &st.Classes,
		ControlFlowCount:    &st.ControlFlow,
		EstimatedComplexity: &estimated,
		Source:              SourceBasicFallback,
	}
}
