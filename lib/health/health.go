package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is anything that can confirm its backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health represents the health check response structure.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DB        struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	} `json:"db"`
	GenAI struct {
		Provider string `json:"provider"`
	} `json:"genai"`
}

// Check returns an HTTP handler that pings the database and reports the
// configured generation provider. A failed ping answers 503.
func Check(db Pinger, provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := Health{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		health.GenAI.Provider = provider

		if err := db.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "Health check database ping failed", slog.Any("error", err))
			health.Status = "degraded"
			health.DB.Status = "error"
			health.DB.Message = "Database ping failed"
			writeHealth(w, health, http.StatusServiceUnavailable)
			return
		}

		health.DB.Status = "ok"
		writeHealth(w, health, http.StatusOK)
	}
}

func writeHealth(w http.ResponseWriter, health Health, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		slog.Error("Failed to encode health response", slog.Any("error", err))
	}
}
