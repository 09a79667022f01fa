package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"neohealth/internal/domain"
)

type RecordWriter interface {
	AddRecord(ctx context.Context, session domain.Session, record domain.HealthRecord) error
}

type Predictor interface {
	Predict(ctx context.Context, session domain.Session, req domain.PredictRequest) (domain.Prediction, error)
}

// SubmissionState es la fase del flujo de envio de un registro.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StatePredicting SubmissionState = "predicting"
	StateDone       SubmissionState = "done"
	StateFailed     SubmissionState = "failed"
)

// GenericSaveFailureMessage se usa cuando el colaborador no explica el rechazo.
const GenericSaveFailureMessage = "Error saving data. Please ensure all numeric fields are filled correctly."

const validationFailureMessage = "Please correct the highlighted fields."

var (
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrRecordNotSaved     = errors.New("record not saved")
	ErrPredictionFailed   = errors.New("prediction failed after record was saved")
)

// SubmissionOutcome resume un intento de envio.
type SubmissionOutcome struct {
	State       SubmissionState      `json:"state"`
	FailedIn    SubmissionState      `json:"failed_in,omitempty"`
	RecordSaved bool                 `json:"record_saved"`
	Record      *domain.HealthRecord `json:"record,omitempty"`
	Prediction  *domain.Prediction   `json:"prediction,omitempty"`
	Message     string               `json:"message,omitempty"`
	Transitions []SubmissionState    `json:"transitions"`
}

func (o *SubmissionOutcome) enter(state SubmissionState) {
	o.State = state
	o.Transitions = append(o.Transitions, state)
}

func (o *SubmissionOutcome) fail(phase SubmissionState, message string) {
	o.FailedIn = phase
	o.Message = message
	o.enter(StateFailed)
}

// SubmissionWorkflow valida, guarda y luego pide la prediccion para la misma fecha.
type SubmissionWorkflow struct {
	logger    *zap.Logger
	records   RecordWriter
	predictor Predictor
	guard     SubmissionGuard
}

func NewSubmissionWorkflow(logger *zap.Logger, records RecordWriter, predictor Predictor, guard SubmissionGuard) *SubmissionWorkflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	if guard == nil {
		guard = NewMemorySubmissionGuard()
	}
	return &SubmissionWorkflow{
		logger:    logger,
		records:   records,
		predictor: predictor,
		guard:     guard,
	}
}

// Submit ejecuta Idle -> Validating -> Submitting -> Predicting -> Done.
// Si la validacion falla no se llama a ningun colaborador; si el guardado falla no se predice.
func (w *SubmissionWorkflow) Submit(ctx context.Context, session domain.Session, form RecordForm) (SubmissionOutcome, error) {
	release, ok := w.guard.Acquire(ctx, guardKey(session))
	if !ok {
		return SubmissionOutcome{State: StateIdle, Transitions: []SubmissionState{StateIdle}}, ErrSubmissionInFlight
	}
	defer release()

	var out SubmissionOutcome
	out.enter(StateIdle)
	out.enter(StateValidating)
	record, verrs := form.Validate()
	if len(verrs) > 0 {
		out.fail(StateValidating, validationFailureMessage)
		return out, verrs
	}

	out.enter(StateSubmitting)
	if err := w.records.AddRecord(ctx, session, record); err != nil {
		message := domain.UserMessage(err)
		if message == "" {
			message = GenericSaveFailureMessage
		}
		out.fail(StateSubmitting, message)
		w.logger.Warn("record submission failed",
			zap.Int64("user_id", session.User.ID),
			zap.String("date", record.Date.String()),
			zap.Error(err),
		)
		return out, fmt.Errorf("%w: %w", ErrRecordNotSaved, err)
	}
	out.RecordSaved = true
	out.Record = &record

	err := w.predict(ctx, session, record.Date, &out)
	return out, err
}

// RetryPrediction repite solo la prediccion para un registro ya guardado.
func (w *SubmissionWorkflow) RetryPrediction(ctx context.Context, session domain.Session, rawDate string) (SubmissionOutcome, error) {
	release, ok := w.guard.Acquire(ctx, guardKey(session))
	if !ok {
		return SubmissionOutcome{State: StateIdle, Transitions: []SubmissionState{StateIdle}}, ErrSubmissionInFlight
	}
	defer release()

	var out SubmissionOutcome
	out.enter(StateIdle)
	out.enter(StateValidating)
	date, err := domain.ParseDate(rawDate)
	if err != nil || date.IsZero() {
		out.fail(StateValidating, validationFailureMessage)
		return out, domain.ValidationErrors{{Field: "date", Message: "date must be a calendar date (YYYY-MM-DD)"}}
	}
	out.RecordSaved = true

	err = w.predict(ctx, session, date, &out)
	return out, err
}

func (w *SubmissionWorkflow) predict(ctx context.Context, session domain.Session, date domain.Date, out *SubmissionOutcome) error {
	out.enter(StatePredicting)
	prediction, err := w.predictor.Predict(ctx, session, domain.PredictRequest{Date: date})
	if err != nil {
		message := "Your record was saved, but the phase prediction failed."
		if detail := domain.UserMessage(err); detail != "" {
			message = "Your record was saved, but the phase prediction failed: " + detail + "."
		}
		out.fail(StatePredicting, message+" Retry the prediction without re-entering the record.")
		w.logger.Warn("phase prediction failed",
			zap.Int64("user_id", session.User.ID),
			zap.String("date", date.String()),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}
	out.Prediction = &prediction
	out.enter(StateDone)
	return nil
}

func guardKey(session domain.Session) string {
	if session.User.ID != 0 {
		return "user:" + strconv.FormatInt(session.User.ID, 10)
	}
	return "session:" + session.ID
}
