package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/icco/moodmovies/lib/omdb"
	"github.com/icco/moodmovies/lib/present"
	"github.com/icco/moodmovies/lib/supabase"
	"github.com/icco/moodmovies/lib/tracker"
	"github.com/icco/moodmovies/lib/types"
	"github.com/icco/moodmovies/lib/validation"
	"github.com/icco/moodmovies/models"
)

const (
	maxBodySize  = 64 << 10
	historyLimit = 20
)

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

func decodeJSON(r *http.Request, v any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: malformed JSON", validation.ErrInvalid)
	}
	return nil
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// HandleMovieDetails returns the OMDb document for an IMDb id with streaming links added.
func HandleMovieDetails(movies MovieLookup, auth Authenticator, tr InteractionTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imdbID := chi.URLParam(r, "imdbID")
		if imdbID == "" {
			validation.WriteError(w, errors.New("imdb id is required"), http.StatusBadRequest)
			return
		}

		doc, err := movies.Lookup(r.Context(), imdbID)
		if errors.Is(err, omdb.ErrNotFound) {
			validation.WriteError(w, errors.New("movie not found"), http.StatusNotFound)
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to look up movie", slog.String("imdb_id", imdbID), slog.Any("error", err))
			validation.WriteError(w, errors.New("failed to fetch movie details"), http.StatusBadGateway)
			return
		}

		title, _ := doc["Title"].(string)
		doc["streaming_links"] = present.StreamingLinks(title, imdbID)

		if user := optionalUser(r, auth); user != nil {
			tr.RecordAsync(models.InteractionEvent{
				UserID:          user.ID,
				MovieTitle:      title,
				IMDbID:          imdbID,
				InteractionType: models.InteractionViewed,
			})
		}

		validation.WriteJSON(w, doc, http.StatusOK)
	}
}

// HandleFeedbackSubmit stores feedback sent as JSON or as a form post.
func HandleFeedbackSubmit(store FeedbackStore, auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var name, email, message, rawRating string

		if isJSON(r) {
			body, err := readBody(r)
			if err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
			req, err := validation.ParseFeedback(body)
			if err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
			name, email, message, rawRating = req.Name, req.Email, req.Message, string(req.Rating)
		} else {
			if err := r.ParseForm(); err != nil {
				validation.WriteError(w, fmt.Errorf("%w: invalid form", validation.ErrInvalid), http.StatusBadRequest)
				return
			}
			name, email, message, rawRating = r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("message"), r.PostFormValue("rating")
		}

		name, email, message = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(message)
		if name == "" || email == "" || message == "" {
			validation.WriteError(w, errors.New("all fields are required"), http.StatusBadRequest)
			return
		}

		rating, err := validation.ParseRating(rawRating)
		if err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		fb := &models.Feedback{Name: name, Email: email, Message: message, Rating: rating}
		if user := optionalUser(r, auth); user != nil {
			fb.UserID = &user.ID
		}

		if err := store.InsertFeedback(r.Context(), fb); err != nil {
			slog.ErrorContext(r.Context(), "Failed to save feedback", slog.Any("error", err))
			validation.WriteError(w, errors.New("failed to submit feedback"), http.StatusInternalServerError)
			return
		}

		validation.WriteJSON(w, map[string]string{
			"message":     "Feedback submitted successfully!",
			"feedback_id": fb.ID,
		}, http.StatusOK)
	}
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *supabase.APIError
	switch {
	case errors.Is(err, supabase.ErrInvalidCredentials):
		validation.WriteError(w, errors.New("invalid credentials"), http.StatusUnauthorized)
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		validation.WriteError(w, errors.New(apiErr.Message), apiErr.Status)
	default:
		slog.ErrorContext(r.Context(), "Auth request failed", slog.Any("error", err))
		validation.WriteError(w, errors.New("authentication service unavailable"), http.StatusBadGateway)
	}
}

func HandleSignUp(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validation.SignUpRequest
		if err := decodeJSON(r, &req); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}
		if err := validation.ValidateStruct(req); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		user, err := auth.SignUp(r.Context(), supabase.SignUpRequest{
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Username: req.Username,
		})
		if err != nil {
			writeAuthError(w, r, err)
			return
		}

		validation.WriteJSON(w, map[string]any{
			"message": "Registration successful! Please check your email for verification.",
			"user":    map[string]string{"id": user.ID, "email": user.Email},
		}, http.StatusOK)
	}
}

func HandleSignIn(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validation.SignInRequest
		if err := decodeJSON(r, &req); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}
		if err := validation.ValidateStruct(req); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		session, err := auth.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, r, err)
			return
		}

		validation.WriteJSON(w, map[string]any{
			"message": "Login successful!",
			"user":    map[string]string{"id": session.User.ID, "email": session.User.Email},
			"session": map[string]string{
				"access_token":  session.AccessToken,
				"refresh_token": session.RefreshToken,
			},
		}, http.StatusOK)
	}
}

func HandleSignOut(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if err := auth.SignOut(r.Context(), token); err != nil {
				writeAuthError(w, r, err)
				return
			}
		}
		validation.WriteJSON(w, map[string]string{"message": "Logout successful!"}, http.StatusOK)
	}
}

func HandleProfile(auth Authenticator, profiles ProfileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r, auth)
		if user == nil {
			return
		}

		profile, err := profiles.GetProfile(r.Context(), user.ID)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to load profile", slog.String("user_id", user.ID), slog.Any("error", err))
			validation.WriteError(w, errors.New("failed to load profile"), http.StatusInternalServerError)
			return
		}

		validation.WriteJSON(w, map[string]any{
			"user": map[string]any{
				"id":      user.ID,
				"email":   user.Email,
				"profile": profile,
			},
		}, http.StatusOK)
	}
}

// HandleTrackInteraction records a like, watchlist add or view for the caller.
func HandleTrackInteraction(auth Authenticator, tr InteractionTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r, auth)
		if user == nil {
			return
		}

		body, err := readBody(r)
		if err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}
		req, err := validation.ParseInteraction(body)
		if err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		err = tr.Record(r.Context(), models.InteractionEvent{
			UserID:          user.ID,
			MovieTitle:      req.MovieTitle,
			IMDbID:          req.IMDbID,
			InteractionType: models.InteractionType(req.InteractionType),
			MoodContext:     req.MoodContext,
		})
		if errors.Is(err, tracker.ErrInvalidInteraction) {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to track interaction", slog.String("user_id", user.ID), slog.Any("error", err))
			validation.WriteError(w, errors.New("failed to track interaction"), http.StatusInternalServerError)
			return
		}

		validation.WriteJSON(w, map[string]string{"message": "Interaction tracked successfully"}, http.StatusOK)
	}
}

// HandleUserRecommendations returns the caller's recent history and titles
// similar to the ones they liked.
func HandleUserRecommendations(auth Authenticator, tr InteractionTracker, rec Recommender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := requireUser(w, r, auth)
		if user == nil {
			return
		}

		history, err := tr.History(r.Context(), user.ID, historyLimit)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to load history", slog.String("user_id", user.ID), slog.Any("error", err))
			validation.WriteError(w, errors.New("failed to load history"), http.StatusInternalServerError)
			return
		}
		if history == nil {
			history = []models.InteractionEvent{}
		}

		stats := types.Summarize(history)
		validation.WriteJSON(w, map[string]any{
			"recommendations": rec.Similar(r.Context(), stats.LikedTitles),
			"user_history":    history,
			"liked_count":     stats.Liked,
		}, http.StatusOK)
	}
}
