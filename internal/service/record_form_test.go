package service

import (
	"encoding/json"
	"testing"

	"neohealth/internal/domain"
)

func fieldSet(errs domain.ValidationErrors) map[string]bool {
	out := make(map[string]bool, len(errs))
	for _, fe := range errs {
		out[fe.Field] = true
	}
	return out
}

func TestRecordForm_ParsesStringsNumbersAndNulls(t *testing.T) {
	var form RecordForm
	raw := `{"date":"2024-03-05","lh":"12.5","estrogen":140,"pdg":null,"daily_steps":"","cramps":"2","stress":1,"deep_sleep_in_minutes":"95"}`
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	rec, errs := form.Validate()
	if len(errs) > 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if rec.Date.String() != "2024-03-05" {
		t.Fatalf("unexpected date %s", rec.Date)
	}
	if rec.LH == nil || *rec.LH != 12.5 || rec.Estrogen == nil || *rec.Estrogen != 140 {
		t.Fatalf("unexpected hormones lh=%v estrogen=%v", rec.LH, rec.Estrogen)
	}
	if rec.PdG != nil || rec.DailySteps != nil {
		t.Fatalf("blank and null fields must stay absent")
	}
	if rec.Cramps == nil || *rec.Cramps != 2 || rec.Stress == nil || *rec.Stress != 1 {
		t.Fatalf("unexpected symptoms cramps=%v stress=%v", rec.Cramps, rec.Stress)
	}
	if rec.DeepSleepMinutes == nil || *rec.DeepSleepMinutes != 95 {
		t.Fatalf("expected deep sleep from legacy field name, got %v", rec.DeepSleepMinutes)
	}
}

func TestRecordForm_DateRequired(t *testing.T) {
	for _, raw := range []FormValue{"", "   ", "03/05/2024", "2024-02-30"} {
		_, errs := RecordForm{Date: raw}.Validate()
		if !fieldSet(errs)["date"] {
			t.Fatalf("expected date error for %q, got %v", raw, errs)
		}
	}
}

func TestRecordForm_ReportsEveryInvalidField(t *testing.T) {
	form := RecordForm{
		Date:         "2024-03-05",
		LH:           "abc",
		OverallScore: "101",
		StressScore:  "-1",
		DailySteps:   "NaN",
		Cramps:       "5",
		Fatigue:      "1.5",
		SleepIssue:   "-1",
	}
	_, errs := form.Validate()
	got := fieldSet(errs)
	for _, field := range []string{"lh", "overall_score", "stress_score", "daily_steps", "cramps", "fatigue", "sleepissue"} {
		if !got[field] {
			t.Fatalf("expected error on %s, got %v", field, errs)
		}
	}
	if got["date"] {
		t.Fatalf("valid date flagged: %v", errs)
	}
}

func TestRecordForm_SymptomBounds(t *testing.T) {
	for _, v := range []FormValue{"0", "4", " 3 "} {
		rec, errs := RecordForm{Date: "2024-03-05", Bloating: v}.Validate()
		if len(errs) > 0 || rec.Bloating == nil {
			t.Fatalf("expected %q accepted, got %v", v, errs)
		}
	}
}

func TestRecordForm_IntegralFieldsShareOneRule(t *testing.T) {
	var form RecordForm
	raw := `{"date":"2024-03-05","cramps":2.0,"fatigue":"3.0","daily_steps":"8000.0","overall_score":75,"lh":"4.25"}`
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	rec, errs := form.Validate()
	if len(errs) > 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if rec.Cramps == nil || *rec.Cramps != 2 || rec.Fatigue == nil || *rec.Fatigue != 3 {
		t.Fatalf("expected integral symptoms accepted, cramps=%v fatigue=%v", rec.Cramps, rec.Fatigue)
	}
	if rec.DailySteps == nil || *rec.DailySteps != 8000 {
		t.Fatalf("unexpected steps %v", rec.DailySteps)
	}

	fractional := RecordForm{
		Date:                "2024-03-05",
		OverallScore:        "75.5",
		StressScore:         "20.1",
		DeepSleepMinutes:    "90.5",
		AvgRestingHeartRate: "61.2",
		DailySteps:          "8000.5",
		Moodswing:           "2.5",
	}
	_, errs = fractional.Validate()
	got := fieldSet(errs)
	for _, field := range []string{"overall_score", "stress_score", "deep_sleep_minutes", "avg_resting_heart_rate", "daily_steps", "moodswing"} {
		if !got[field] {
			t.Fatalf("expected whole-number error on %s, got %v", field, errs)
		}
	}
}
