package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"neohealth/internal/domain"
)

// Colaboradores de lectura. Cada uno recibe la sesion de forma explicita.
type RecordSource interface {
	ListRecords(ctx context.Context, session domain.Session) ([]domain.HealthRecord, error)
}

type PredictionSource interface {
	History(ctx context.Context, session domain.Session) ([]domain.Prediction, error)
}

type DatasetSource interface {
	ListDatasets(ctx context.Context, session domain.Session) ([]domain.DatasetDescriptor, error)
}

type SummarySource interface {
	Summary(ctx context.Context, session domain.Session) (domain.GlobalSummary, error)
}

// Nombres de fuente reportados en DashboardState.DegradedSources.
const (
	SourceRecords     = "records"
	SourcePredictions = "predictions"
	SourceDatasets    = "datasets"
	SourceSummary     = "summary"
)

// ErrCompositionAbandoned se devuelve cuando el llamador cancela antes de que las
// cuatro fuentes terminen. En ese caso no se publica ningun estado.
var ErrCompositionAbandoned = errors.New("dashboard composition abandoned")

// Headline es la prediccion vigente lista para mostrarse.
type Headline struct {
	Phase           string  `json:"phase"`
	Confidence      float64 `json:"confidence"`
	ConfidenceLabel string  `json:"confidence_label"`
	IsSample        bool    `json:"is_sample"`
}

// DashboardState es la vista completa del dashboard de un usuario.
type DashboardState struct {
	Records         RecordSeries          `json:"records"`
	Predictions     PredictionHistoryView `json:"predictions"`
	Datasets        DatasetCatalog        `json:"datasets"`
	Summary         *domain.GlobalSummary `json:"summary"`
	DominantPhase   string                `json:"dominant_phase,omitempty"`
	IsExampleMode   bool                  `json:"is_example_mode"`
	Headline        *Headline             `json:"headline"`
	KPIs            KPIs                  `json:"kpis"`
	DegradedSources []string              `json:"degraded_sources,omitempty"`
	SessionExpired  bool                  `json:"session_expired,omitempty"`
}

// DashboardInputs son los resultados de las cuatro fuentes, con su error si fallaron.
type DashboardInputs struct {
	Records        []domain.HealthRecord
	RecordsErr     error
	Predictions    []domain.Prediction
	PredictionsErr error
	Datasets       []domain.DatasetDescriptor
	DatasetsErr    error
	Summary        domain.GlobalSummary
	SummaryErr     error
}

// DashboardComposer consulta las cuatro fuentes en paralelo y arma el estado.
type DashboardComposer struct {
	logger      *zap.Logger
	records     RecordSource
	predictions PredictionSource
	datasets    DatasetSource
	summaries   SummarySource
	timeout     time.Duration
}

func NewDashboardComposer(logger *zap.Logger, records RecordSource, predictions PredictionSource, datasets DatasetSource, summaries SummarySource, timeout time.Duration) *DashboardComposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardComposer{
		logger:      logger,
		records:     records,
		predictions: predictions,
		datasets:    datasets,
		summaries:   summaries,
		timeout:     timeout,
	}
}

// Compose lanza las cuatro consultas a la vez y espera a que todas terminen.
// Una fuente fallida se degrada a vacio; si ctx se cancela antes se devuelve
// ErrCompositionAbandoned.
func (c *DashboardComposer) Compose(ctx context.Context, session domain.Session) (DashboardState, error) {
	fetchCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// Cada goroutine escribe solo su propio campo; el errgroup es la barrera.
	var in DashboardInputs
	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		in.Records, in.RecordsErr = c.records.ListRecords(gctx, session)
		return nil
	})
	g.Go(func() error {
		in.Predictions, in.PredictionsErr = c.predictions.History(gctx, session)
		return nil
	})
	g.Go(func() error {
		in.Datasets, in.DatasetsErr = c.datasets.ListDatasets(gctx, session)
		return nil
	})
	g.Go(func() error {
		in.Summary, in.SummaryErr = c.summaries.Summary(gctx, session)
		return nil
	})

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	if err := ctx.Err(); err != nil {
		c.logger.Info("dashboard composition abandoned", zap.Int64("user_id", session.User.ID), zap.Error(err))
		return DashboardState{}, fmt.Errorf("%w: %w", ErrCompositionAbandoned, err)
	}

	state := BuildDashboardState(in)
	if len(state.DegradedSources) > 0 {
		c.logger.Warn("dashboard composed with degraded sources",
			zap.Int64("user_id", session.User.ID),
			zap.Strings("sources", state.DegradedSources),
			zap.Errors("errors", collectErrors(in)),
			zap.Bool("session_expired", state.SessionExpired),
		)
	}
	return state, nil
}

// BuildDashboardState es la parte pura de Compose: aplica las reglas de degradacion
// y deriva modo ejemplo, KPIs, headline y fase dominante.
func BuildDashboardState(in DashboardInputs) DashboardState {
	var state DashboardState
	degrade := func(source string, err error) bool {
		if err == nil {
			return false
		}
		state.DegradedSources = append(state.DegradedSources, source)
		if domain.IsAuthError(err) {
			state.SessionExpired = true
		}
		return true
	}

	records := in.Records
	if degrade(SourceRecords, in.RecordsErr) {
		records = nil
	}
	predictions := in.Predictions
	if degrade(SourcePredictions, in.PredictionsErr) {
		predictions = nil
	}
	datasets := in.Datasets
	if degrade(SourceDatasets, in.DatasetsErr) {
		datasets = nil
	}
	if !degrade(SourceSummary, in.SummaryErr) {
		summary := in.Summary
		state.Summary = &summary
		if phase := summary.DominantPhase(); phase != domain.NoDominantPhase {
			state.DominantPhase = phase
		}
	}

	state.Records = NewRecordSeries(orEmpty(records))
	state.Predictions = NewPredictionHistoryView(orEmpty(predictions))
	state.Datasets = NewDatasetCatalog(orEmpty(datasets))
	state.IsExampleMode = state.Records.IsExampleMode()
	state.KPIs = state.Records.KPIs()

	if current, ok := state.Predictions.Current(state.Records); ok {
		headline := &Headline{
			Phase:      current.Phase,
			Confidence: current.Confidence,
			IsSample:   len(state.Predictions.Predictions()) == 0,
		}
		if label, err := FormatConfidence(current); err == nil {
			headline.ConfidenceLabel = label
		}
		state.Headline = headline
	}
	return state
}

func collectErrors(in DashboardInputs) []error {
	var errs []error
	for _, err := range []error{in.RecordsErr, in.PredictionsErr, in.DatasetsErr, in.SummaryErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
