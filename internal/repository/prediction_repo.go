package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"neohealth/internal/domain"
)

type PredictionRepository interface {
	History(ctx context.Context, session domain.Session) ([]domain.Prediction, error)
}

// PgPredictionRepository lee el historial escrito por el servicio de prediccion.
type PgPredictionRepository struct {
	pool *pgxpool.Pool
}

func NewPgPredictionRepository(pool *pgxpool.Pool) *PgPredictionRepository {
	return &PgPredictionRepository{pool: pool}
}

func (r *PgPredictionRepository) History(ctx context.Context, session domain.Session) ([]domain.Prediction, error) {
	const query = `
		SELECT date, predicted_phase, COALESCE(confidence, 0)
		FROM predictions
		WHERE user_id = $1 AND COALESCE(confidence, 0) BETWEEN 0 AND 1
		ORDER BY date DESC, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, session.User.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := []domain.Prediction{}
	for rows.Next() {
		var p domain.Prediction
		var day time.Time
		if err := rows.Scan(&day, &p.Phase, &p.Confidence); err != nil {
			return nil, err
		}
		p.Date = domain.NewDate(day)
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}
