package upstream

import (
	"context"
	"sync"

	"neohealth/internal/domain"
)

// MockClient permite tests sin llamar al backend real. Los campos Err* fuerzan fallas
// por colaborador; Calls cuenta las invocaciones por operacion.
type MockClient struct {
	mu sync.Mutex

	LoginResult   domain.LoginResult
	User          domain.User
	Records       []domain.HealthRecord
	Predictions   []domain.Prediction
	Prediction    domain.Prediction
	Datasets      []domain.DatasetDescriptor
	GlobalSummary domain.GlobalSummary
	Stats         domain.DatasetStats
	Admin         domain.AdminStats

	ErrLogin       error
	ErrRegister    error
	ErrCurrentUser error
	ErrAddRecord   error
	ErrRecords     error
	ErrPredict     error
	ErrHistory     error
	ErrDatasets    error
	ErrSummary     error
	ErrStats       error
	ErrSeed        error
	ErrAdminStats  error

	Added []domain.HealthRecord
	Calls map[string]int
}

func (m *MockClient) count(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[op]++
}

// CallCount devuelve cuantas veces se invoco op.
func (m *MockClient) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}

func (m *MockClient) Login(_ context.Context, _ domain.Credentials) (domain.LoginResult, error) {
	m.count("login")
	return m.LoginResult, m.ErrLogin
}

func (m *MockClient) Register(_ context.Context, _ domain.Registration) error {
	m.count("register")
	return m.ErrRegister
}

func (m *MockClient) CurrentUser(_ context.Context, _ domain.Session) (domain.User, error) {
	m.count("me")
	return m.User, m.ErrCurrentUser
}

func (m *MockClient) AddRecord(_ context.Context, _ domain.Session, record domain.HealthRecord) error {
	m.count("add_record")
	if m.ErrAddRecord != nil {
		return m.ErrAddRecord
	}
	m.mu.Lock()
	m.Added = append(m.Added, record)
	m.mu.Unlock()
	return nil
}

func (m *MockClient) ListRecords(_ context.Context, _ domain.Session) ([]domain.HealthRecord, error) {
	m.count("records")
	return m.Records, m.ErrRecords
}

func (m *MockClient) Predict(_ context.Context, _ domain.Session, req domain.PredictRequest) (domain.Prediction, error) {
	m.count("predict")
	if m.ErrPredict != nil {
		return domain.Prediction{}, m.ErrPredict
	}
	p := m.Prediction
	if p.Date.IsZero() {
		p.Date = req.Date
	}
	return p, nil
}

func (m *MockClient) History(_ context.Context, _ domain.Session) ([]domain.Prediction, error) {
	m.count("history")
	return m.Predictions, m.ErrHistory
}

func (m *MockClient) ListDatasets(_ context.Context, _ domain.Session) ([]domain.DatasetDescriptor, error) {
	m.count("datasets")
	return m.Datasets, m.ErrDatasets
}

func (m *MockClient) Summary(_ context.Context, _ domain.Session) (domain.GlobalSummary, error) {
	m.count("summary")
	return m.GlobalSummary, m.ErrSummary
}

func (m *MockClient) DatasetStats(_ context.Context, _ domain.Session, _ string) (domain.DatasetStats, error) {
	m.count("stats")
	return m.Stats, m.ErrStats
}

func (m *MockClient) SeedExamples(_ context.Context, _ domain.Session) error {
	m.count("seed")
	return m.ErrSeed
}

func (m *MockClient) AdminStats(_ context.Context, _ domain.Session) (domain.AdminStats, error) {
	m.count("admin_stats")
	return m.Admin, m.ErrAdminStats
}
