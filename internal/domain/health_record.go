package domain

import "sort"

// HealthRecord es la entrada fisiologica diaria de un usuario.
type HealthRecord struct {
	Date                Date     `json:"date"`
	LH                  *float64 `json:"lh"`
	Estrogen            *float64 `json:"estrogen"`
	PdG                 *float64 `json:"pdg"`
	OverallScore        *float64 `json:"overall_score"`
	StressScore         *float64 `json:"stress_score"`
	DeepSleepMinutes    *float64 `json:"deep_sleep_minutes"`
	AvgRestingHeartRate *float64 `json:"avg_resting_heart_rate"`
	DailySteps          *float64 `json:"daily_steps"`
	Cramps              *int     `json:"cramps"`
	Fatigue             *int     `json:"fatigue"`
	Moodswing           *int     `json:"moodswing"`
	Stress              *int     `json:"stress"`
	Bloating            *int     `json:"bloating"`
	SleepIssue          *int     `json:"sleepissue"`
	IsExample           bool     `json:"is_example"`
}

// Rango Likert de los sintomas.
const (
	SymptomMin = 0
	SymptomMax = 4
)

// SortRecordsAscending ordena por fecha ascendente sin alterar el orden relativo de empates.
func SortRecordsAscending(records []HealthRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date.Time)
	})
}
