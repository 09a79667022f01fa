package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"neohealth/internal/domain"
)

// FormValue es el texto crudo de un campo del formulario. Acepta string, numero o null.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

func (v FormValue) blank() bool {
	return strings.TrimSpace(string(v)) == ""
}

// RecordForm es la entrada del usuario antes de validar. Un campo vacio significa "sin dato".
type RecordForm struct {
	Date                FormValue `json:"date"`
	LH                  FormValue `json:"lh"`
	Estrogen            FormValue `json:"estrogen"`
	PdG                 FormValue `json:"pdg"`
	OverallScore        FormValue `json:"overall_score"`
	StressScore         FormValue `json:"stress_score"`
	DeepSleepMinutes    FormValue `json:"deep_sleep_minutes"`
	DeepSleepInMinutes  FormValue `json:"deep_sleep_in_minutes"`
	AvgRestingHeartRate FormValue `json:"avg_resting_heart_rate"`
	DailySteps          FormValue `json:"daily_steps"`
	Cramps              FormValue `json:"cramps"`
	Fatigue             FormValue `json:"fatigue"`
	Moodswing           FormValue `json:"moodswing"`
	Stress              FormValue `json:"stress"`
	Bloating            FormValue `json:"bloating"`
	SleepIssue          FormValue `json:"sleepissue"`
}

type floatRule struct {
	field  string
	value  FormValue
	target **float64
	lo, hi float64
	whole  bool
}

// parseNumber acepta "2", "2.0" o 2.0; con whole exige un valor entero.
func parseNumber(v FormValue, whole bool) (float64, string) {
	n, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, "must be a number"
	}
	if whole && n != math.Trunc(n) {
		return 0, "must be a whole number"
	}
	return n, ""
}

// Validate convierte el formulario en un HealthRecord o devuelve todos los errores de campo.
func (f RecordForm) Validate() (domain.HealthRecord, domain.ValidationErrors) {
	var (
		rec  domain.HealthRecord
		errs domain.ValidationErrors
	)

	if f.Date.blank() {
		errs = append(errs, domain.FieldError{Field: "date", Message: "date is required"})
	} else if d, err := domain.ParseDate(string(f.Date)); err != nil {
		errs = append(errs, domain.FieldError{Field: "date", Message: "date must be a calendar date (YYYY-MM-DD)"})
	} else {
		rec.Date = d
	}

	deepSleep := f.DeepSleepMinutes
	if deepSleep.blank() {
		deepSleep = f.DeepSleepInMinutes
	}

	floats := []floatRule{
		{"lh", f.LH, &rec.LH, 0, math.Inf(1), false},
		{"estrogen", f.Estrogen, &rec.Estrogen, 0, math.Inf(1), false},
		{"pdg", f.PdG, &rec.PdG, 0, math.Inf(1), false},
		{"overall_score", f.OverallScore, &rec.OverallScore, 0, 100, true},
		{"stress_score", f.StressScore, &rec.StressScore, 0, 100, true},
		{"deep_sleep_minutes", deepSleep, &rec.DeepSleepMinutes, 0, 24 * 60, true},
		{"avg_resting_heart_rate", f.AvgRestingHeartRate, &rec.AvgRestingHeartRate, 0, math.Inf(1), true},
		{"daily_steps", f.DailySteps, &rec.DailySteps, 0, math.Inf(1), true},
	}
	for _, rule := range floats {
		if rule.value.blank() {
			continue
		}
		n, msg := parseNumber(rule.value, rule.whole)
		if msg != "" {
			errs = append(errs, domain.FieldError{Field: rule.field, Message: msg})
			continue
		}
		if n < rule.lo || n > rule.hi {
			errs = append(errs, domain.FieldError{Field: rule.field, Message: rangeMessage(rule.lo, rule.hi)})
			continue
		}
		*rule.target = &n
	}

	symptoms := []struct {
		field  string
		value  FormValue
		target **int
	}{
		{"cramps", f.Cramps, &rec.Cramps},
		{"fatigue", f.Fatigue, &rec.Fatigue},
		{"moodswing", f.Moodswing, &rec.Moodswing},
		{"stress", f.Stress, &rec.Stress},
		{"bloating", f.Bloating, &rec.Bloating},
		{"sleepissue", f.SleepIssue, &rec.SleepIssue},
	}
	for _, s := range symptoms {
		if s.value.blank() {
			continue
		}
		v, msg := parseNumber(s.value, true)
		if msg != "" {
			errs = append(errs, domain.FieldError{Field: s.field, Message: msg})
			continue
		}
		if v < domain.SymptomMin || v > domain.SymptomMax {
			errs = append(errs, domain.FieldError{Field: s.field, Message: "must be between 0 and 4"})
			continue
		}
		n := int(v)
		*s.target = &n
	}

	if len(errs) > 0 {
		return domain.HealthRecord{}, errs
	}
	return rec, nil
}

func rangeMessage(lo, hi float64) string {
	low := strconv.FormatFloat(lo, 'f', -1, 64)
	if math.IsInf(hi, 1) {
		return "must be at least " + low
	}
	return "must be between " + low + " and " + strconv.FormatFloat(hi, 'f', -1, 64)
}
