package upstream

import (
	"context"

	"neohealth/internal/domain"
)

// wireRecord es el formato del backend; difiere del dominio en deep_sleep_in_minutes.
type wireRecord struct {
	Date                domain.Date `json:"date"`
	LH                  *float64    `json:"lh,omitempty"`
	Estrogen            *float64    `json:"estrogen,omitempty"`
	PdG                 *float64    `json:"pdg,omitempty"`
	OverallScore        *float64    `json:"overall_score,omitempty"`
	StressScore         *float64    `json:"stress_score,omitempty"`
	DeepSleepInMinutes  *float64    `json:"deep_sleep_in_minutes,omitempty"`
	AvgRestingHeartRate *float64    `json:"avg_resting_heart_rate,omitempty"`
	DailySteps          *float64    `json:"daily_steps,omitempty"`
	Cramps              *int        `json:"cramps,omitempty"`
	Fatigue             *int        `json:"fatigue,omitempty"`
	Moodswing           *int        `json:"moodswing,omitempty"`
	Stress              *int        `json:"stress,omitempty"`
	Bloating            *int        `json:"bloating,omitempty"`
	SleepIssue          *int        `json:"sleepissue,omitempty"`
	IsExample           bool        `json:"is_example,omitempty"`
}

func toWire(r domain.HealthRecord) wireRecord {
	return wireRecord{
		Date:                r.Date,
		LH:                  r.LH,
		Estrogen:            r.Estrogen,
		PdG:                 r.PdG,
		OverallScore:        r.OverallScore,
		StressScore:         r.StressScore,
		DeepSleepInMinutes:  r.DeepSleepMinutes,
		AvgRestingHeartRate: r.AvgRestingHeartRate,
		DailySteps:          r.DailySteps,
		Cramps:              r.Cramps,
		Fatigue:             r.Fatigue,
		Moodswing:           r.Moodswing,
		Stress:              r.Stress,
		Bloating:            r.Bloating,
		SleepIssue:          r.SleepIssue,
	}
}

func (w wireRecord) toDomain() domain.HealthRecord {
	return domain.HealthRecord{
		Date:                w.Date,
		LH:                  w.LH,
		Estrogen:            w.Estrogen,
		PdG:                 w.PdG,
		OverallScore:        w.OverallScore,
		StressScore:         w.StressScore,
		DeepSleepMinutes:    w.DeepSleepInMinutes,
		AvgRestingHeartRate: w.AvgRestingHeartRate,
		DailySteps:          w.DailySteps,
		Cramps:              w.Cramps,
		Fatigue:             w.Fatigue,
		Moodswing:           w.Moodswing,
		Stress:              w.Stress,
		Bloating:            w.Bloating,
		SleepIssue:          w.SleepIssue,
		IsExample:           w.IsExample,
	}
}

func (c *Client) AddRecord(ctx context.Context, session domain.Session, record domain.HealthRecord) error {
	return c.post(ctx, &session, "records.add", "/health/record", toWire(record), nil)
}

// ListRecords devuelve los registros del usuario en orden ascendente de fecha,
// sin importar el orden en que los entregue el backend.
func (c *Client) ListRecords(ctx context.Context, session domain.Session) ([]domain.HealthRecord, error) {
	var wire []wireRecord
	if err := c.get(ctx, &session, "records.list", "/health/records", &wire); err != nil {
		return nil, err
	}
	records := make([]domain.HealthRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, w.toDomain())
	}
	domain.SortRecordsAscending(records)
	return records, nil
}
