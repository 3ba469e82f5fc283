package model

import (
	"encoding/json"
	"time"
)

// Vaccine stage statuses.
const (
	StageStatusPending = "pending"
	StageStatusDone    = "done"
	StageStatusSkipped = "skipped"
)

// VaccineSchedule is a vaccination programme for one batch.
type VaccineSchedule struct {
	ID            string         `json:"id"`
	BatchAssignID string         `json:"batch_assign_id"`
	Title         string         `json:"title"`
	StartDate     time.Time      `json:"start_date"`
	Remarks       string         `json:"remarks"`
	CreatedBy     string         `json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Stages        []VaccineStage `json:"stages"`
}

// VaccineStage is one vaccination within a schedule, due AgeDays after the start date.
type VaccineStage struct {
	ID            string     `json:"id"`
	ScheduleID    string     `json:"schedule_id"`
	StageNo       int        `json:"stage_no"`
	StageName     string     `json:"stage_name"`
	AgeDays       int        `json:"age_days"`
	VaccineName   string     `json:"vaccine_name"`
	Dose          string     `json:"dose"`
	Route         string     `json:"route"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Status        string     `json:"status"`
	DoneAt        *time.Time `json:"done_at,omitempty"`
	DoneBy        *string    `json:"done_by,omitempty"`
	Notes         string     `json:"notes"`
}

// DueStage is a pending stage joined with its schedule and batch for listing.
type DueStage struct {
	VaccineStage
	Title         string `json:"title"`
	BatchAssignID string `json:"batch_assign_id"`
	BatchNo       string `json:"batch_no"`
}

// EggClassification is the grading of one day's eggs for a batch.
type EggClassification struct {
	ID            string    `json:"id"`
	BatchAssignID string    `json:"batch_assign_id"`
	ClassifyDate  time.Time `json:"classify_date"`
	TotalEggs     int       `json:"total_eggs"`
	Hatching      int       `json:"hatching"`
	Commercial    int       `json:"commercial"`
	DoubleYolk    int       `json:"double_yolk"`
	Cracked       int       `json:"cracked"`
	Dirty         int       `json:"dirty"`
	Small         int       `json:"small"`
	Rejected      int       `json:"rejected"`
	Remarks       string    `json:"remarks"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CategorySum adds every graded category.
func (e *EggClassification) CategorySum() int {
	return e.Hatching + e.Commercial + e.DoubleYolk + e.Cracked + e.Dirty + e.Small + e.Rejected
}

// HatchingPercent is the share of hatching eggs, rounded to two decimals.
func (e *EggClassification) HatchingPercent() float64 {
	return Percent(e.Hatching, e.TotalEggs)
}

// MarshalJSON adds the derived hatching_percent to every rendering.
func (e EggClassification) MarshalJSON() ([]byte, error) {
	type plain EggClassification
	return json.Marshal(struct {
		plain
		HatchingPercent float64 `json:"hatching_percent"`
	}{plain(e), e.HatchingPercent()})
}

// DailyOperation is the per-day husbandry log of a batch.
type DailyOperation struct {
	ID             string    `json:"id"`
	BatchAssignID  string    `json:"batch_assign_id"`
	OperationDate  time.Time `json:"operation_date"`
	Mortality      HeadCount `json:"mortality"`
	Culling        HeadCount `json:"culling"`
	FeedKg         float64   `json:"feed_kg"`
	WaterLiters    float64   `json:"water_liters"`
	AvgBodyWeightG float64   `json:"avg_body_weight_g"`
	EggsCollected  int       `json:"eggs_collected"`
	Remarks        string    `json:"remarks"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
