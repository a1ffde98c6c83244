package types

import "github.com/icco/moodmovies/models"

// HistoryStats summarizes a user's recent interactions.
type HistoryStats struct {
	Total       int
	Viewed      int
	Liked       int
	Watchlisted int
	// LikedTitles are distinct liked titles, newest first.
	LikedTitles []string
	// TopMoods are distinct mood contexts, newest first.
	TopMoods []string
}

// Summarize counts events by type. Events are expected newest first.
func Summarize(events []models.InteractionEvent) HistoryStats {
	stats := HistoryStats{Total: len(events)}
	seenTitle := map[string]bool{}
	seenMood := map[string]bool{}

	for _, e := range events {
		switch e.InteractionType {
		case models.InteractionViewed:
			stats.Viewed++
		case models.InteractionLiked:
			stats.Liked++
			if !seenTitle[e.MovieTitle] {
				seenTitle[e.MovieTitle] = true
				stats.LikedTitles = append(stats.LikedTitles, e.MovieTitle)
			}
		case models.InteractionWatchlist:
			stats.Watchlisted++
		}
		if e.MoodContext != "" && !seenMood[e.MoodContext] {
			seenMood[e.MoodContext] = true
			stats.TopMoods = append(stats.TopMoods, e.MoodContext)
		}
	}
	return stats
}
