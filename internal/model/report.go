package model

import (
	"math"
	"time"
)

// Dashboard is the polling snapshot shown on the operations home screen.
type Dashboard struct {
	Date             time.Time `json:"date"`
	PsReceived       HeadCount `json:"ps_received"`
	LiveBirds        HeadCount `json:"live_birds"`
	MortalityToday   HeadCount `json:"mortality_today"`
	EggsToday        int       `json:"eggs_today"`
	HatchingToday    int       `json:"hatching_eggs_today"`
	PendingApprovals int       `json:"pending_approvals"`
	VaccinesDueToday int       `json:"vaccines_due_today"`
}

// PerformanceRow is one day of a batch performance report.
type PerformanceRow struct {
	Date          time.Time `json:"date"`
	Mortality     HeadCount `json:"mortality"`
	Culling       HeadCount `json:"culling"`
	FeedKg        float64   `json:"feed_kg"`
	EggsCollected int       `json:"eggs_collected"`
	HatchingEggs  int       `json:"hatching_eggs"`
}

// PerformanceTotals aggregates a batch performance report.
type PerformanceTotals struct {
	Assigned         HeadCount `json:"assigned"`
	Mortality        HeadCount `json:"mortality"`
	Culling          HeadCount `json:"culling"`
	FeedKg           float64   `json:"feed_kg"`
	EggsCollected    int       `json:"eggs_collected"`
	HatchingEggs     int       `json:"hatching_eggs"`
	MortalityPercent float64   `json:"mortality_percent"`
	FeedPerBirdKg    float64   `json:"feed_per_bird_kg"`
	HatchingPercent  float64   `json:"hatching_percent"`
}

// BatchPerformance is the per-day report of one batch over a date range.
type BatchPerformance struct {
	Batch  BatchAssign       `json:"batch"`
	From   time.Time         `json:"from"`
	To     time.Time         `json:"to"`
	Rows   []PerformanceRow  `json:"rows"`
	Totals PerformanceTotals `json:"totals"`
}

// Summarize fills Totals from Rows and the batch's assigned quantity.
func (p *BatchPerformance) Summarize() {
	t := PerformanceTotals{Assigned: p.Batch.Quantity}
	for _, r := range p.Rows {
		t.Mortality = t.Mortality.Add(r.Mortality)
		t.Culling = t.Culling.Add(r.Culling)
		t.FeedKg += r.FeedKg
		t.EggsCollected += r.EggsCollected
		t.HatchingEggs += r.HatchingEggs
	}
	t.MortalityPercent = Percent(t.Mortality.Total, t.Assigned.Total)
	if t.Assigned.Total > 0 {
		t.FeedPerBirdKg = round(t.FeedKg/float64(t.Assigned.Total), 3)
	}
	t.HatchingPercent = Percent(t.HatchingEggs, t.EggsCollected)
	t.FeedKg = round(t.FeedKg, 3)
	p.Totals = t
}

// ReportExport points at an exported workbook in object storage.
type ReportExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Percent returns part/whole*100 rounded to two decimals, or 0 for an empty whole.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round(float64(part)/float64(whole)*100, 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
