package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/icco/moodmovies/handlers/templates"
	"github.com/icco/moodmovies/lib/recommend"
	"github.com/icco/moodmovies/lib/supabase"
	"github.com/icco/moodmovies/lib/validation"
	"github.com/icco/moodmovies/models"
)

type Recommender interface {
	Recommend(ctx context.Context, mood string, variant recommend.Variant) ([]string, error)
	Similar(ctx context.Context, liked []string) []string
}

type Normalizer interface {
	Normalize(ctx context.Context, moodText string) string
}

type CardAssembler interface {
	Assemble(ctx context.Context, titles []string) []models.Card
}

type MovieLookup interface {
	Lookup(ctx context.Context, imdbID string) (map[string]any, error)
}

type Authenticator interface {
	SignUp(ctx context.Context, req supabase.SignUpRequest) (*supabase.User, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	Authenticate(ctx context.Context, accessToken string) (*supabase.User, error)
}

type InteractionTracker interface {
	Record(ctx context.Context, event models.InteractionEvent) error
	RecordAsync(events ...models.InteractionEvent)
	TrackMood(userID, mood string, titles []string)
	History(ctx context.Context, userID string, limit int) ([]models.InteractionEvent, error)
}

type FeedbackStore interface {
	InsertFeedback(ctx context.Context, fb *models.Feedback) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type errorData struct {
	Message string
}

func renderError(w http.ResponseWriter, message string, status int) {
	tmpl, err := templates.ParseTemplates("base.html", "error.html")
	if err != nil {
		slog.Error("Failed to parse error template", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", errorData{Message: message}); err != nil {
		slog.Error("Failed to execute error template", slog.Any("error", err))
	}
}

func renderPage(w http.ResponseWriter, page string, data any) {
	tmpl, err := templates.ParseTemplates("base.html", page)
	if err != nil {
		slog.Error("Failed to parse template", slog.String("page", page), slog.Any("error", err))
		renderError(w, "Something went wrong while loading the page.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		slog.Error("Failed to execute template", slog.String("page", page), slog.Any("error", err))
	}
}

// renderCards writes the card fragment used by the front-end's dynamic sections.
func renderCards(w http.ResponseWriter, cards []models.Card) {
	tmpl, err := templates.ParseTemplates("cards.html")
	if err != nil {
		slog.Error("Failed to parse cards template", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "cards.html", cards); err != nil {
		slog.Error("Failed to execute cards template", slog.Any("error", err))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// optionalUser returns the caller when a valid token is present and nil otherwise.
func optionalUser(r *http.Request, auth Authenticator) *supabase.User {
	token := bearerToken(r)
	if token == "" {
		return nil
	}
	user, err := auth.Authenticate(r.Context(), token)
	if err != nil {
		slog.DebugContext(r.Context(), "Continuing as anonymous user", slog.Any("error", err))
		return nil
	}
	return user
}

// requireUser writes a 401 and returns nil when the caller is not authenticated.
func requireUser(w http.ResponseWriter, r *http.Request, auth Authenticator) *supabase.User {
	token := bearerToken(r)
	if token == "" {
		validation.WriteError(w, errors.New("authentication required"), http.StatusUnauthorized)
		return nil
	}

	user, err := auth.Authenticate(r.Context(), token)
	switch {
	case errors.Is(err, supabase.ErrInvalidToken):
		validation.WriteError(w, errors.New("invalid token"), http.StatusUnauthorized)
		return nil
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to authenticate", slog.Any("error", err))
		validation.WriteError(w, errors.New("authentication service unavailable"), http.StatusBadGateway)
		return nil
	}
	return user
}
