package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/icco/moodmovies/lib/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"category", "  Romantic\n", nil, "romantic"},
		{"trailing punctuation", "Scared.", nil, "scared"},
		{"service error", "", errors.New("timeout"), "i feel blue"},
		{"empty reply", "   ", nil, "i feel blue"},
		{"sentence reply", "The user is sad", nil, "i feel blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNormalizer(fixed(tt.reply, tt.err), testLogger())
			require.NoError(t, err)

			assert.Equal(t, tt.want, n.Normalize(context.Background(), "I feel Blue"))
		})
	}
}

func TestNormalizePromptListsCategories(t *testing.T) {
	var prompt string
	n, err := NewNormalizer(llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "happy", nil
	}), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "happy", n.Normalize(context.Background(), "great day"))
	assert.Contains(t, prompt, `Analyze this mood/feeling: "great day"`)
	for _, mood := range Moods() {
		assert.Contains(t, prompt, "- "+mood)
	}
}
