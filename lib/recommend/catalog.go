package recommend

import "strings"

type catalogEntry struct {
	mood   string
	titles []string
}

// catalog is consulted in order; the first matching mood wins. The first entry
// doubles as the default.
var catalog = []catalogEntry{
	{"happy", []string{"The Grand Budapest Hotel", "La La Land", "Paddington 2", "The Princess Bride", "Mamma Mia!", "School of Rock", "The Incredibles", "Ferris Bueller's Day Off"}},
	{"sad", []string{"Inside Out", "Her", "The Pursuit of Happyness", "Good Will Hunting", "A Monster Calls", "The Green Mile", "Marley & Me", "Up"}},
	{"excited", []string{"Mad Max: Fury Road", "John Wick", "Mission: Impossible", "The Avengers", "Baby Driver", "Speed", "Die Hard", "Top Gun: Maverick"}},
	{"romantic", []string{"The Notebook", "Casablanca", "When Harry Met Sally", "Pride and Prejudice", "Titanic", "Before Sunrise", "Sleepless in Seattle", "The Holiday"}},
	{"adventurous", []string{"Indiana Jones", "Pirates of the Caribbean", "The Lord of the Rings", "Jurassic Park", "National Treasure", "The Mummy", "Tomb Raider", "Uncharted"}},
	{"thoughtful", []string{"Inception", "Interstellar", "The Matrix", "Blade Runner 2049", "Arrival", "Ex Machina", "Her", "The Social Dilemma"}},
	{"nostalgic", []string{"Back to the Future", "E.T.", "The Goonies", "Stand by Me", "The Sandlot", "Home Alone", "Toy Story", "The Lion King"}},
	{"scared", []string{"Get Out", "A Quiet Place", "Hereditary", "The Conjuring", "It", "Scream", "Halloween", "The Babadook"}},
}

// PopularTitles is offered to users without any liked movies.
var PopularTitles = []string{"The Shawshank Redemption", "The Godfather", "Pulp Fiction", "The Dark Knight", "Forrest Gump", "Inception", "The Matrix", "Goodfellas"}

// TrendingTitles and RecentTitles back the fixed browse pages.
var (
	TrendingTitles = []string{"Avengers: Endgame", "Spider-Man: No Way Home", "Top Gun: Maverick", "Black Panther", "Dune", "The Batman", "Doctor Strange", "Thor: Love and Thunder", "Jurassic World Dominion", "Minions: The Rise of Gru"}
	RecentTitles   = []string{"Oppenheimer", "Barbie", "Fast X", "Indiana Jones 5", "Transformers: Rise of the Beasts", "The Flash", "Guardians of the Galaxy Vol. 3", "John Wick: Chapter 4", "Scream VI", "Creed III"}
)

// Lookup returns the fallback titles for a mood. A catalog key matches when it
// appears in the mood or the mood appears in it, ignoring case. Unmatched moods
// get the happy list.
func Lookup(mood string) []string {
	needle := strings.ToLower(mood)
	for _, entry := range catalog {
		if strings.Contains(needle, entry.mood) || strings.Contains(entry.mood, needle) {
			return clone(entry.titles)
		}
	}
	return clone(catalog[0].titles)
}

// Moods lists the catalog keys in lookup order.
func Moods() []string {
	out := make([]string, len(catalog))
	for i, entry := range catalog {
		out[i] = entry.mood
	}
	return out
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
