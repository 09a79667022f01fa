package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"neohealth/internal/domain"
)

// RecordRepository define el contrato de persistencia para registros de salud.
type RecordRepository interface {
	AddRecord(ctx context.Context, session domain.Session, record domain.HealthRecord) error
	ListRecords(ctx context.Context, session domain.Session) ([]domain.HealthRecord, error)
}

// PgRecordRepository implementa RecordRepository sobre la tabla health_records del backend.
// El esquema del backend no tiene is_example; exampleColumn lo habilita cuando
// la base fue extendida con esa marca.
type PgRecordRepository struct {
	pool          *pgxpool.Pool
	exampleColumn bool
}

func NewPgRecordRepository(pool *pgxpool.Pool, exampleColumn bool) *PgRecordRepository {
	return &PgRecordRepository{pool: pool, exampleColumn: exampleColumn}
}

// AddRecord inserta el registro del dia o, si ya existe uno para esa fecha,
// actualiza solo los campos informados (mismo criterio que el backend).
func (r *PgRecordRepository) AddRecord(ctx context.Context, session domain.Session, record domain.HealthRecord) error {
	if record.Date.IsZero() {
		return errors.New("record date is required")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const update = `
		UPDATE health_records SET
			lh = COALESCE($3, lh),
			estrogen = COALESCE($4, estrogen),
			pdg = COALESCE($5, pdg),
			overall_score = COALESCE($6, overall_score),
			stress_score = COALESCE($7, stress_score),
			deep_sleep_in_minutes = COALESCE($8, deep_sleep_in_minutes),
			avg_resting_heart_rate = COALESCE($9, avg_resting_heart_rate),
			daily_steps = COALESCE($10, daily_steps),
			cramps = COALESCE($11, cramps),
			fatigue = COALESCE($12, fatigue),
			moodswing = COALESCE($13, moodswing),
			stress = COALESCE($14, stress),
			bloating = COALESCE($15, bloating),
			sleepissue = COALESCE($16, sleepissue)
		WHERE user_id = $1 AND date = $2
	`
	args := recordArgs(session.User.ID, record)
	tag, err := tx.Exec(ctx, update, args...)
	if err != nil {
		return fmt.Errorf("update health record: %w", err)
	}

	if tag.RowsAffected() == 0 {
		const insert = `
			INSERT INTO health_records (
				user_id, date, lh, estrogen, pdg, overall_score, stress_score,
				deep_sleep_in_minutes, avg_resting_heart_rate, daily_steps,
				cramps, fatigue, moodswing, stress, bloating, sleepissue, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`
		if _, err := tx.Exec(ctx, insert, append(args, time.Now().UTC())...); err != nil {
			return fmt.Errorf("insert health record: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func recordArgs(userID int64, record domain.HealthRecord) []any {
	return []any{
		userID,
		record.Date.Time,
		record.LH,
		record.Estrogen,
		record.PdG,
		record.OverallScore,
		record.StressScore,
		record.DeepSleepMinutes,
		record.AvgRestingHeartRate,
		record.DailySteps,
		record.Cramps,
		record.Fatigue,
		record.Moodswing,
		record.Stress,
		record.Bloating,
		record.SleepIssue,
	}
}

func listRecordsQuery(exampleColumn bool) string {
	example := "FALSE"
	if exampleColumn {
		example = "COALESCE(is_example, FALSE)"
	}
	return `
		SELECT date, lh, estrogen, pdg, overall_score, stress_score,
			deep_sleep_in_minutes, avg_resting_heart_rate, daily_steps,
			cramps, fatigue, moodswing, stress, bloating, sleepissue,
			` + example + ` AS is_example
		FROM health_records
		WHERE user_id = $1
		ORDER BY date ASC
	`
}

// ListRecords devuelve los registros del usuario en orden ascendente de fecha.
func (r *PgRecordRepository) ListRecords(ctx context.Context, session domain.Session) ([]domain.HealthRecord, error) {
	rows, err := r.pool.Query(ctx, listRecordsQuery(r.exampleColumn), session.User.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.HealthRecord{}
	for rows.Next() {
		var rec domain.HealthRecord
		var day time.Time
		err = rows.Scan(
			&day,
			&rec.LH,
			&rec.Estrogen,
			&rec.PdG,
			&rec.OverallScore,
			&rec.StressScore,
			&rec.DeepSleepMinutes,
			&rec.AvgRestingHeartRate,
			&rec.DailySteps,
			&rec.Cramps,
			&rec.Fatigue,
			&rec.Moodswing,
			&rec.Stress,
			&rec.Bloating,
			&rec.SleepIssue,
			&rec.IsExample,
		)
		if err != nil {
			return nil, err
		}
		rec.Date = domain.NewDate(day)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
