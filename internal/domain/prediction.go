package domain

import "sort"

// Fases conocidas del ciclo.
const (
	PhaseFollicular   = "Follicular"
	PhaseOvulation    = "Ovulation"
	PhaseLuteal       = "Luteal"
	PhaseMenstrual    = "Menstrual"
	PhaseLutealSample = "Luteal (Sample)"
)

// Prediction es una inferencia de fase con su confianza en [0,1].
type Prediction struct {
	Date       Date    `json:"date"`
	Phase      string  `json:"phase"`
	Confidence float64 `json:"confidence"`
}

// ValidConfidence indica si la confianza es una probabilidad.
func (p Prediction) ValidConfidence() bool {
	return p.Confidence >= 0 && p.Confidence <= 1
}

// PredictRequest es la entrada minima del colaborador de prediccion.
type PredictRequest struct {
	Date Date `json:"date"`
}

// SortPredictionsRecentFirst ordena por fecha descendente (la mas reciente primero).
func SortPredictionsRecentFirst(predictions []Prediction) {
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Date.After(predictions[j].Date.Time)
	})
}
