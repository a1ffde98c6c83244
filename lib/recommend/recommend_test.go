package recommend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/icco/moodmovies/lib/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixed(text string, err error) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return text, err
	})
}

func newRecommender(t *testing.T, gen llm.Generator) *Recommender {
	t.Helper()
	r, err := New(gen, testLogger())
	require.NoError(t, err)
	return r
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		mood  string
		first string
	}{
		{"key inside mood", "happy mood", "The Grand Budapest Hotel"},
		{"case insensitive", "Feeling SAD today", "Inside Out"},
		{"mood inside key", "rom", "The Notebook"},
		{"unknown falls back to happy", "totally unknown xyz", "The Grand Budapest Hotel"},
		{"empty falls back to happy", "", "The Grand Budapest Hotel"},
		{"first key in table order wins", "sad but happy", "The Grand Budapest Hotel"},
		{"scared", "a bit scared", "Get Out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles := Lookup(tt.mood)
			require.Len(t, titles, 8)
			assert.Equal(t, tt.first, titles[0])
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	titles := Lookup("happy")
	titles[0] = "mutated"
	assert.Equal(t, "The Grand Budapest Hotel", Lookup("happy")[0])
}

func TestParseEnhanced(t *testing.T) {
	assert.Equal(t, []string{"Inception", "Up"}, ParseEnhanced("1. Inception, 2. Up, a", EnhancedCount))
	assert.Equal(t, []string{"Her", "It"}, ParseEnhanced(" 10 - Her ,\n3.It, , 4.", EnhancedCount))
	assert.Equal(t, []string{"Inception", "Up", "Heat"}, ParseEnhanced("1) Inception, (2) Up, 3: Heat", EnhancedCount))

	many := strings.Repeat("Movie Title,", 12)
	assert.Len(t, ParseEnhanced(many, EnhancedCount), EnhancedCount)
}

func TestParseSimple(t *testing.T) {
	assert.Equal(t, []string{"Dune", "Up", "a"}, ParseSimple("Dune, Up ,a,,", SimpleCount))

	many := strings.Repeat("Film,", 15)
	assert.Len(t, ParseSimple(many, SimpleCount), SimpleCount)
}

func TestEnhancedUsesGeneratedTitles(t *testing.T) {
	var prompt string
	r := newRecommender(t, llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "1. Inception, 2. Up, a", nil
	}))

	titles := r.Enhanced(context.Background(), "curious")
	assert.Equal(t, []string{"Inception", "Up"}, titles)
	assert.Contains(t, prompt, "suggest 8 perfect movies for someone feeling 'curious'")
}

func TestSimplePrompt(t *testing.T) {
	var prompt string
	r := newRecommender(t, llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "Dune, Arrival", nil
	}))

	assert.Equal(t, []string{"Dune", "Arrival"}, r.Simple(context.Background(), "calm"))
	assert.Contains(t, prompt, "Suggest 10 random Hollywood and Bollywood movies for someone in a 'calm' mood.")
}

func TestFallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		gen  llm.Generator
	}{
		{"error", fixed("", errors.New("unreachable"))},
		{"empty", fixed("   ", nil)},
		{"only debris", fixed("1., a, 2", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecommender(t, tt.gen)
			assert.Equal(t, Lookup("romantic evening"), r.Enhanced(context.Background(), "romantic evening"))
			assert.Equal(t, Lookup("romantic evening"), r.Simple(context.Background(), "romantic evening"))
		})
	}
}

func TestRecommendNeverEmpty(t *testing.T) {
	r := newRecommender(t, fixed("", errors.New("down")))
	for _, mood := range []string{"x", "happy", "zzzz", "feeling nostalgic", "🙂"} {
		for _, v := range []Variant{VariantSimple, VariantEnhanced} {
			titles, err := r.Recommend(context.Background(), mood, v)
			require.NoError(t, err)
			assert.NotEmpty(t, titles, "mood %q variant %s", mood, v)
		}
	}
}

func TestRecommendRejectsEmptyMood(t *testing.T) {
	r := newRecommender(t, fixed("Dune", nil))
	_, err := r.Recommend(context.Background(), "   ", VariantEnhanced)
	assert.ErrorIs(t, err, ErrEmptyMood)
}

func TestSimilar(t *testing.T) {
	var prompt string
	r := newRecommender(t, llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "Heat, Collateral", nil
	}))

	assert.Equal(t, PopularTitles, r.Similar(context.Background(), nil))

	titles := r.Similar(context.Background(), []string{"Alien", "Aliens", "Prometheus", "Covenant"})
	assert.Equal(t, []string{"Heat", "Collateral"}, titles)
	assert.Contains(t, prompt, "movies similar to Alien, Aliens, Prometheus'")
	assert.NotContains(t, prompt, "Covenant")
}
