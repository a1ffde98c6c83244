package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/icco/moodmovies/lib/recommend"
)

type homeData struct {
	Moods []string
}

type feedbackData struct {
	Ratings []int
}

func HandleHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, "home.html", homeData{Moods: recommend.Moods()})
	}
}

// HandleMoodRecommendations turns the posted mood into movie cards.
func HandleMoodRecommendations(rec Recommender, norm Normalizer, asm CardAssembler, auth Authenticator, tr InteractionTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission.", http.StatusBadRequest)
			return
		}

		mood := strings.TrimSpace(r.PostFormValue("mood"))
		if mood == "" {
			http.Error(w, "Mood input is required.", http.StatusBadRequest)
			return
		}

		variant := recommend.VariantEnhanced
		if r.FormValue("variant") == string(recommend.VariantSimple) {
			variant = recommend.VariantSimple
		}

		query := mood
		if r.FormValue("normalize") == "1" {
			query = norm.Normalize(r.Context(), mood)
		}

		titles, err := rec.Recommend(r.Context(), query, variant)
		if errors.Is(err, recommend.ErrEmptyMood) {
			http.Error(w, "Mood input is required.", http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to generate recommendations", slog.Any("error", err))
			http.Error(w, "An error occurred while generating recommendations. Please try again later.", http.StatusInternalServerError)
			return
		}

		if user := optionalUser(r, auth); user != nil {
			tr.TrackMood(user.ID, mood, titles)
		}

		renderCards(w, asm.Assemble(r.Context(), titles))
	}
}

// HandleTitleList renders a fixed list of titles as cards.
func HandleTitleList(asm CardAssembler, titles []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderCards(w, asm.Assemble(r.Context(), titles))
	}
}

func HandleFeedbackPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, "feedback.html", feedbackData{Ratings: []int{1, 2, 3, 4, 5}})
	}
}
