package service

import (
	"encoding/json"
	"fmt"

	"neohealth/internal/domain"
)

// SamplePrediction se muestra en modo ejemplo cuando no hay predicciones reales.
var SamplePrediction = domain.Prediction{Phase: domain.PhaseLutealSample, Confidence: 0.92}

// PredictionHistoryView envuelve las predicciones de la mas reciente a la mas antigua.
type PredictionHistoryView struct {
	predictions []domain.Prediction
}

func NewPredictionHistoryView(predictions []domain.Prediction) PredictionHistoryView {
	return PredictionHistoryView{predictions: predictions}
}

func (v PredictionHistoryView) Predictions() []domain.Prediction {
	return v.predictions
}

// Current devuelve la prediccion vigente. Sin historial, y solo si la serie pareada
// esta en modo ejemplo, devuelve SamplePrediction.
func (v PredictionHistoryView) Current(records RecordSeries) (domain.Prediction, bool) {
	if len(v.predictions) > 0 {
		return v.predictions[0], true
	}
	if records.IsExampleMode() {
		return SamplePrediction, true
	}
	return domain.Prediction{}, false
}

func (v PredictionHistoryView) MarshalJSON() ([]byte, error) {
	if v.predictions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.predictions)
}

// FormatConfidence devuelve la confianza como porcentaje con un decimal (0.927 -> "92.7%").
func FormatConfidence(p domain.Prediction) (string, error) {
	if !p.ValidConfidence() {
		return "", fmt.Errorf("confidence %v outside [0,1]", p.Confidence)
	}
	return fmt.Sprintf("%.1f%%", p.Confidence*100), nil
}
