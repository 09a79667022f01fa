package upstream

import (
	"context"

	"go.uber.org/zap"

	"neohealth/internal/domain"
)

type predictBody struct {
	Date string `json:"date"`
}

// Predict dispara la prediccion de fase para la fecha indicada.
func (c *Client) Predict(ctx context.Context, session domain.Session, req domain.PredictRequest) (domain.Prediction, error) {
	var out domain.Prediction
	if err := c.post(ctx, &session, "predictions.predict", "/predictions/predict", predictBody{Date: req.Date.String()}, &out); err != nil {
		return domain.Prediction{}, err
	}
	if !out.ValidConfidence() {
		return domain.Prediction{}, &domain.TransportError{
			Op:      "predictions.predict",
			Kind:    domain.KindServer,
			Message: "prediction confidence out of range",
		}
	}
	if out.Date.IsZero() {
		out.Date = req.Date
	}
	return out, nil
}

// History devuelve las predicciones de la mas reciente a la mas antigua.
// Las entradas con confianza fuera de [0,1] se descartan.
func (c *Client) History(ctx context.Context, session domain.Session) ([]domain.Prediction, error) {
	var wire []domain.Prediction
	if err := c.get(ctx, &session, "predictions.history", "/predictions/history", &wire); err != nil {
		return nil, err
	}
	out := make([]domain.Prediction, 0, len(wire))
	for _, p := range wire {
		if !p.ValidConfidence() {
			c.logger.Warn("dropping prediction with invalid confidence",
				zap.String("date", p.Date.String()),
				zap.Float64("confidence", p.Confidence),
			)
			continue
		}
		out = append(out, p)
	}
	domain.SortPredictionsRecentFirst(out)
	return out, nil
}
