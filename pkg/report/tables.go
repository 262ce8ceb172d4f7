package report

import (
	"github.com/dd0wney/wsn-resilience/pkg/experiment"
)

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// TimeSeriesTable lays out one row per step of every run.
func TimeSeriesTable(name string, rows []experiment.TimeSeriesRow) *Table {
	t := NewTable(name,
		Column{"model_name", KindText},
		Column{"run_id", KindInt},
		Column{"step", KindInt},
		Column{"lcc", KindFloat},
		Column{"online_fraction", KindFloat},
		Column{"successful_packets", KindInt},
		Column{"total_packets", KindInt},
		Column{"ddr_cumulative", KindFloat},
		Column{"delivered_this_step", KindInt},
		Column{"algebraic_connectivity", KindFloat},
	)
	for _, r := range rows {
		t.Append(r.Model, r.RunID, r.Step, r.LCC, r.OnlineFraction,
			r.SuccessfulPackets, r.TotalPackets, r.DDRCumulative, r.DeliveredThisStep,
			optional(r.AlgebraicConnectivity))
	}
	return t
}

// SummaryTable lays out one row per run.
func SummaryTable(name string, rows []experiment.SummaryRow) *Table {
	t := NewTable(name,
		Column{"model_name", KindText},
		Column{"run_id", KindInt},
		Column{"seed", KindUint},
		Column{"ddr_final", KindFloat},
		Column{"time_to_first_death", KindFloat},
		Column{"time_to_lcc_collapse", KindFloat},
		Column{"ttr_events_count", KindInt},
		Column{"ttr_mean", KindFloat},
		Column{"ttr_median", KindFloat},
	)
	for _, r := range rows {
		t.Append(r.Model, r.RunID, r.Seed, r.DDRFinal, r.TimeToFirstDeath,
			r.TimeToLCCCollapse, r.TTREventsCount, r.TTRMean, r.TTRMedian)
	}
	return t
}

// StaticTable lays out one row per removal step of every attack.
func StaticTable(name string, rows []experiment.StaticRow) *Table {
	t := NewTable(name,
		Column{"model_name", KindText},
		Column{"attack_strategy", KindText},
		Column{"run_id", KindInt},
		Column{"nodes_removed_fraction", KindFloat},
		Column{"lcc", KindFloat},
		Column{"smoothness", KindFloat},
		Column{"algebraic_connectivity", KindFloat},
	)
	for _, r := range rows {
		t.Append(r.Model, string(r.Strategy), r.RunID, r.NodesRemovedFraction,
			r.LCC, r.Smoothness, optional(r.AlgebraicConnectivity))
	}
	return t
}
