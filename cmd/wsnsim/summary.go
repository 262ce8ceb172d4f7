package main

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dd0wney/wsn-resilience/pkg/dynamic"
	"github.com/dd0wney/wsn-resilience/pkg/experiment"
	"github.com/dd0wney/wsn-resilience/pkg/stats"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// modelSummary aggregates the dynamic runs of one model. Means of event
// times are taken over the runs where the event happened and are +Inf when
// it never did.
type modelSummary struct {
	Model          string
	Runs           int
	MeanDDR        float64
	MeanFirstDeath float64
	MeanCollapse   float64
	TTREvents      int
	MeanTTR        float64
}

// summarizeDynamic groups summary rows by model, keeping the first-seen
// model order.
func summarizeDynamic(rows []experiment.SummaryRow) []modelSummary {
	var order []string
	byModel := make(map[string][]experiment.SummaryRow)
	for _, r := range rows {
		if _, ok := byModel[r.Model]; !ok {
			order = append(order, r.Model)
		}
		byModel[r.Model] = append(byModel[r.Model], r)
	}

	out := make([]modelSummary, 0, len(order))
	for _, name := range order {
		group := byModel[name]
		s := modelSummary{Model: name, Runs: len(group)}

		ddr := make([]float64, len(group))
		deaths := make([]float64, len(group))
		collapses := make([]float64, len(group))
		ttr := make([]float64, len(group))
		for i, r := range group {
			ddr[i] = r.DDRFinal
			deaths[i] = r.TimeToFirstDeath
			collapses[i] = r.TimeToLCCCollapse
			ttr[i] = r.TTRMean
			s.TTREvents += r.TTREventsCount
		}
		s.MeanDDR = stats.Mean(ddr)
		s.MeanFirstDeath = finiteMean(deaths)
		s.MeanCollapse = finiteMean(collapses)
		s.MeanTTR = finiteMean(ttr)
		out = append(out, s)
	}
	return out
}

// attackSummary aggregates the attacks of one model and strategy.
// Robustness is the mean LCC over all removals (the R index), and Critical
// the mean removed fraction at which the LCC first fell below the collapse
// threshold.
type attackSummary struct {
	Model      string
	Strategy   string
	Runs       int
	Robustness float64
	Critical   float64
}

// summarizeStatic aggregates static rows, which arrive grouped by model,
// strategy and run.
func summarizeStatic(rows []experiment.StaticRow) []attackSummary {
	type key struct {
		model, strategy string
	}
	var order []key
	robustness := make(map[key][]float64)
	critical := make(map[key][]float64)

	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].Model == rows[start].Model &&
			rows[end].Strategy == rows[start].Strategy && rows[end].RunID == rows[start].RunID {
			end++
		}
		attack := rows[start:end]
		k := key{attack[0].Model, string(attack[0].Strategy)}
		if _, ok := robustness[k]; !ok {
			order = append(order, k)
		}

		var lcc []float64
		for _, m := range attack {
			if m.Step > 0 {
				lcc = append(lcc, m.LCC)
			}
		}
		robustness[k] = append(robustness[k], stats.Mean(lcc))

		collapsed := stats.FirstIndex(attack, func(r experiment.StaticRow) bool {
			return r.LCC < dynamic.LCCCollapseThreshold
		})
		if collapsed >= 0 {
			critical[k] = append(critical[k], attack[collapsed].NodesRemovedFraction)
		}
		start = end
	}

	out := make([]attackSummary, 0, len(order))
	for _, k := range order {
		out = append(out, attackSummary{
			Model:      k.model,
			Strategy:   k.strategy,
			Runs:       len(robustness[k]),
			Robustness: stats.Mean(robustness[k]),
			Critical:   finiteMean(critical[k]),
		})
	}
	return out
}

func finiteMean(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.Inf(1)
	}
	return stats.Mean(finite)
}

func formatMetric(v float64, prec int) string {
	if math.IsInf(v, 1) {
		return "never"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func newSummaryTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderDynamicSummary(summaries []modelSummary) string {
	t := newSummaryTable("MODEL", "RUNS", "DDR", "FIRST DEATH", "LCC COLLAPSE", "TTR EVENTS", "MEAN TTR")
	for _, s := range summaries {
		t.Row(
			s.Model,
			strconv.Itoa(s.Runs),
			formatMetric(s.MeanDDR, 3),
			formatMetric(s.MeanFirstDeath, 1),
			formatMetric(s.MeanCollapse, 1),
			strconv.Itoa(s.TTREvents),
			formatMetric(s.MeanTTR, 1),
		)
	}
	return t.Render()
}

func renderStaticSummary(summaries []attackSummary) string {
	t := newSummaryTable("MODEL", "STRATEGY", "RUNS", "ROBUSTNESS", "CRITICAL FRACTION")
	for _, s := range summaries {
		t.Row(
			s.Model,
			s.Strategy,
			strconv.Itoa(s.Runs),
			formatMetric(s.Robustness, 3),
			formatMetric(s.Critical, 3),
		)
	}
	return t.Render()
}
