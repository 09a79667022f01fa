package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"neohealth/internal/config"
	"neohealth/internal/domain"
	"neohealth/internal/service"
	"neohealth/internal/upstream"
)

type app struct {
	reader   *bufio.Reader
	sessions *service.SessionManager
	composer *service.DashboardComposer
	workflow *service.SubmissionWorkflow
	client   *upstream.Client
}

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout(), cfg.UpstreamReadRetries, logger)
	a := &app{
		reader:   reader,
		sessions: service.NewSessionManager(logger, client, service.NewMemorySessionStore(), cfg.SessionTTL()),
		composer: service.NewDashboardComposer(logger, client, client, client, client, cfg.DashboardTimeout()),
		workflow: service.NewSubmissionWorkflow(logger, client, client, service.NewMemorySubmissionGuard()),
		client:   client,
	}

	for {
		session, err := a.loginFlow(ctx)
		if err != nil {
			fmt.Printf("Login fallido: %v\n", err)
			continue
		}
		fmt.Printf("Hola %s.\n", session.User.Username)
		if err := a.actionsMenu(ctx, session); err != nil {
			fmt.Printf("%v\n", err)
		}
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		os.Exit(0)
	}
	return strings.TrimSpace(line)
}

func (a *app) loginFlow(ctx context.Context) (domain.Session, error) {
	fmt.Println("===== Health Insights =====")
	username := a.prompt("Usuario: ")
	password := a.prompt("Password: ")
	return a.sessions.Login(ctx, domain.Credentials{Username: username, Password: password})
}

// actionsMenu vuelve al login cuando la sesion vence.
func (a *app) actionsMenu(ctx context.Context, session domain.Session) error {
	for {
		fmt.Println("\n[1] Ver dashboard")
		fmt.Println("[2] Registrar dia")
		fmt.Println("[3] Reintentar prediccion")
		fmt.Println("[4] Estadisticas de dataset")
		fmt.Println("[5] Cargar datos de ejemplo")
		fmt.Println("[6] Salir")

		var err error
		switch a.prompt("Selecciona una opcion: ") {
		case "1":
			err = a.showDashboard(ctx, session)
		case "2":
			err = a.submitFlow(ctx, session)
		case "3":
			err = a.retryFlow(ctx, session)
		case "4":
			err = a.statsFlow(ctx, session)
		case "5":
			if err = a.client.SeedExamples(ctx, session); err == nil {
				fmt.Println("Datos de ejemplo cargados.")
			}
		case "6":
			_ = a.sessions.Logout(ctx, session.ID)
			os.Exit(0)
		default:
			fmt.Println("Opcion invalida.")
		}
		if domain.IsAuthError(err) {
			a.sessions.Invalidate(ctx, session, err)
			return errors.New("sesion vencida, vuelve a ingresar")
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func (a *app) showDashboard(ctx context.Context, session domain.Session) error {
	state, err := a.composer.Compose(ctx, session)
	if err != nil {
		return err
	}
	if state.SessionExpired {
		return &domain.AuthError{Reason: "session expired"}
	}
	if state.IsExampleMode {
		fmt.Println("(datos de ejemplo)")
	}
	if state.Headline != nil {
		fmt.Printf("Fase actual: %s (%s)\n", state.Headline.Phase, state.Headline.ConfidenceLabel)
	} else {
		fmt.Println("Sin prediccion todavia.")
	}
	fmt.Printf("Frecuencia cardiaca: %s | Pasos: %s | Estres: %s | Sueno: %s\n",
		kpi(state.KPIs.HeartRate), kpi(state.KPIs.Steps), kpi(state.KPIs.StressScore), kpi(state.KPIs.SleepQuality))
	fmt.Printf("Registros: %d | Predicciones: %d | Datasets: %d\n",
		state.Records.Len(), len(state.Predictions.Predictions()), len(state.Datasets.List()))
	if state.Summary != nil {
		fmt.Printf("Global: %d registros, fase dominante %s\n", state.Summary.TotalRecords, state.Summary.DominantPhase())
	}
	if len(state.DegradedSources) > 0 {
		fmt.Printf("No disponibles: %s\n", strings.Join(state.DegradedSources, ", "))
	}
	return nil
}

func (a *app) submitFlow(ctx context.Context, session domain.Session) error {
	fmt.Println("Deja vacio cualquier campo que no quieras registrar.")
	form := service.RecordForm{
		Date:                service.FormValue(a.prompt("Fecha (YYYY-MM-DD): ")),
		LH:                  service.FormValue(a.prompt("LH: ")),
		Estrogen:            service.FormValue(a.prompt("Estrogeno: ")),
		PdG:                 service.FormValue(a.prompt("PdG: ")),
		OverallScore:        service.FormValue(a.prompt("Calidad de sueno (0-100): ")),
		StressScore:         service.FormValue(a.prompt("Estres (0-100): ")),
		DeepSleepMinutes:    service.FormValue(a.prompt("Sueno profundo (min): ")),
		AvgRestingHeartRate: service.FormValue(a.prompt("Frecuencia en reposo: ")),
		DailySteps:          service.FormValue(a.prompt("Pasos: ")),
		Cramps:              service.FormValue(a.prompt("Colicos (0-4): ")),
		Fatigue:             service.FormValue(a.prompt("Fatiga (0-4): ")),
		Moodswing:           service.FormValue(a.prompt("Cambios de humor (0-4): ")),
		Stress:              service.FormValue(a.prompt("Estres percibido (0-4): ")),
		Bloating:            service.FormValue(a.prompt("Hinchazon (0-4): ")),
		SleepIssue:          service.FormValue(a.prompt("Problemas de sueno (0-4): ")),
	}
	outcome, err := a.workflow.Submit(ctx, session, form)
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
		}
		return nil
	}
	return printOutcome(outcome, err)
}

func (a *app) retryFlow(ctx context.Context, session domain.Session) error {
	outcome, err := a.workflow.RetryPrediction(ctx, session, a.prompt("Fecha (YYYY-MM-DD): "))
	return printOutcome(outcome, err)
}

func (a *app) statsFlow(ctx context.Context, session domain.Session) error {
	stats, err := a.client.DatasetStats(ctx, session, a.prompt("Nombre del dataset: "))
	if err != nil {
		return err
	}
	fmt.Printf("%s: columnas %s, filas %v\n", stats.Name, strings.Join(stats.Columns, ", "), stats.Rows)
	return nil
}

func printOutcome(outcome service.SubmissionOutcome, err error) error {
	if outcome.Message != "" {
		fmt.Println(outcome.Message)
	}
	if outcome.Prediction != nil {
		label, _ := service.FormatConfidence(*outcome.Prediction)
		fmt.Printf("Prediccion: %s (%s)\n", outcome.Prediction.Phase, label)
	}
	if domain.IsAuthError(err) {
		return err
	}
	return nil
}

func kpi(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}
