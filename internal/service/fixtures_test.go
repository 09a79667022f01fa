package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"neohealth/internal/domain"
)

func f64(v float64) *float64 { return &v }

func mustDate(raw string) domain.Date {
	d, err := domain.ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

var testSession = domain.Session{ID: "sess-1", Token: "tok", User: domain.User{ID: 42, Username: "ana"}}

func sampleRecords() []domain.HealthRecord {
	return []domain.HealthRecord{
		{Date: mustDate("2024-03-01"), IsExample: true, AvgRestingHeartRate: f64(60.2), DailySteps: f64(7000)},
		{Date: mustDate("2024-03-02"), IsExample: true, AvgRestingHeartRate: f64(61.6), DailySteps: f64(8000), StressScore: f64(33.4), OverallScore: f64(78)},
	}
}

func sampleSummary() domain.GlobalSummary {
	return domain.GlobalSummary{
		TotalRecords: 120,
		AvgHeartRate: 63.5,
		TotalSteps:   840000,
		PhaseDistribution: domain.PhaseDistribution{
			{Phase: "Luteal", Count: 50},
			{Phase: "Follicular", Count: 40},
			{Phase: "Menstrual", Count: 30},
		},
	}
}

// stubSources responde de inmediato con datos fijos o con el error configurado.
type stubSources struct {
	records     []domain.HealthRecord
	predictions []domain.Prediction
	datasets    []domain.DatasetDescriptor
	summary     domain.GlobalSummary

	recordsErr, predictionsErr, datasetsErr, summaryErr error
}

func (s *stubSources) ListRecords(context.Context, domain.Session) ([]domain.HealthRecord, error) {
	return s.records, s.recordsErr
}

func (s *stubSources) History(context.Context, domain.Session) ([]domain.Prediction, error) {
	return s.predictions, s.predictionsErr
}

func (s *stubSources) ListDatasets(context.Context, domain.Session) ([]domain.DatasetDescriptor, error) {
	return s.datasets, s.datasetsErr
}

func (s *stubSources) Summary(context.Context, domain.Session) (domain.GlobalSummary, error) {
	return s.summary, s.summaryErr
}

func (s *stubSources) composer() *DashboardComposer {
	return NewDashboardComposer(nil, s, s, s, s, 0)
}

// gatedSources bloquea cada fuente hasta que el test abre su compuerta.
type gatedSources struct {
	stubSources
	started chan string
	gates   map[string]chan struct{}
}

func newGatedSources(base stubSources) *gatedSources {
	g := &gatedSources{
		stubSources: base,
		started:     make(chan string, 4),
		gates:       make(map[string]chan struct{}),
	}
	for _, name := range []string{SourceRecords, SourcePredictions, SourceDatasets, SourceSummary} {
		g.gates[name] = make(chan struct{})
	}
	return g
}

func (g *gatedSources) wait(ctx context.Context, name string) error {
	g.started <- name
	select {
	case <-g.gates[name]:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gatedSources) ListRecords(ctx context.Context, s domain.Session) ([]domain.HealthRecord, error) {
	if err := g.wait(ctx, SourceRecords); err != nil {
		return nil, err
	}
	return g.stubSources.ListRecords(ctx, s)
}

func (g *gatedSources) History(ctx context.Context, s domain.Session) ([]domain.Prediction, error) {
	if err := g.wait(ctx, SourcePredictions); err != nil {
		return nil, err
	}
	return g.stubSources.History(ctx, s)
}

func (g *gatedSources) ListDatasets(ctx context.Context, s domain.Session) ([]domain.DatasetDescriptor, error) {
	if err := g.wait(ctx, SourceDatasets); err != nil {
		return nil, err
	}
	return g.stubSources.ListDatasets(ctx, s)
}

func (g *gatedSources) Summary(ctx context.Context, s domain.Session) (domain.GlobalSummary, error) {
	if err := g.wait(ctx, SourceSummary); err != nil {
		return domain.GlobalSummary{}, err
	}
	return g.stubSources.Summary(ctx, s)
}

// fakeWorkflowDeps registra las llamadas de escritura y prediccion.
type fakeWorkflowDeps struct {
	mu          sync.Mutex
	addErr      error
	predictErr  error
	prediction  domain.Prediction
	added       []domain.HealthRecord
	predictReqs []domain.PredictRequest
	addHook     func()
}

func (f *fakeWorkflowDeps) AddRecord(_ context.Context, _ domain.Session, record domain.HealthRecord) error {
	if f.addHook != nil {
		f.addHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, record)
	return f.addErr
}

func (f *fakeWorkflowDeps) Predict(_ context.Context, _ domain.Session, req domain.PredictRequest) (domain.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictReqs = append(f.predictReqs, req)
	if f.predictErr != nil {
		return domain.Prediction{}, f.predictErr
	}
	p := f.prediction
	p.Date = req.Date
	return p, nil
}

func (f *fakeWorkflowDeps) counts() (adds, predicts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.added), len(f.predictReqs)
}

func nopLogger() *zap.Logger { return zap.NewNop() }
