package domain

// AdminStats son los conteos globales del backend y sus ultimas predicciones.
type AdminStats struct {
	Users       int             `json:"users"`
	Predictions int             `json:"predictions"`
	Records     int             `json:"records"`
	RecentLogs  []PredictionLog `json:"recent_logs"`
}

// PredictionLog es una entrada del registro de predicciones recientes.
// Date llega con hora ("2006-01-02 15:04") y se conserva como texto.
type PredictionLog struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"user_id"`
	Phase      string   `json:"phase"`
	Confidence *float64 `json:"confidence"`
	Date       string   `json:"date"`
}
