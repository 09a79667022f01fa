package service

import (
	"encoding/json"
	"math"

	"neohealth/internal/domain"
)

// RecordSeries envuelve los registros de un usuario en orden ascendente de fecha.
// El orden lo garantiza el adaptador que los entrega; aqui no se reordena.
type RecordSeries struct {
	records []domain.HealthRecord
}

// KPIs son las metricas de cabecera derivadas del ultimo registro.
type KPIs struct {
	HeartRate    *float64 `json:"heart_rate"`
	Steps        *float64 `json:"steps"`
	StressScore  *float64 `json:"stress_score"`
	SleepQuality *float64 `json:"sleep_quality"`
}

// Empty indica si no hay ninguna metrica disponible.
func (k KPIs) Empty() bool {
	return k.HeartRate == nil && k.Steps == nil && k.StressScore == nil && k.SleepQuality == nil
}

func NewRecordSeries(records []domain.HealthRecord) RecordSeries {
	return RecordSeries{records: records}
}

func (s RecordSeries) Records() []domain.HealthRecord {
	return s.records
}

func (s RecordSeries) Len() int {
	return len(s.records)
}

// Latest devuelve el ultimo registro de la serie.
func (s RecordSeries) Latest() (domain.HealthRecord, bool) {
	if len(s.records) == 0 {
		return domain.HealthRecord{}, false
	}
	return s.records[len(s.records)-1], true
}

// IsExampleMode es verdadero si el registro mas antiguo es dato de ejemplo:
// los datasets de respaldo se siembran desde el primer dia.
func (s RecordSeries) IsExampleMode() bool {
	return len(s.records) > 0 && s.records[0].IsExample
}

// KPIs extrae las metricas del ultimo registro; frecuencia cardiaca y estres se redondean.
func (s RecordSeries) KPIs() KPIs {
	latest, ok := s.Latest()
	if !ok {
		return KPIs{}
	}
	return KPIs{
		HeartRate:    roundedCopy(latest.AvgRestingHeartRate),
		Steps:        copyOf(latest.DailySteps),
		StressScore:  roundedCopy(latest.StressScore),
		SleepQuality: copyOf(latest.OverallScore),
	}
}

func (s RecordSeries) MarshalJSON() ([]byte, error) {
	if s.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.records)
}

func copyOf(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func roundedCopy(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := math.Round(*v)
	return &out
}
