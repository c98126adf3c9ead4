package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-max-protein/internal/models"
	"mcp-max-protein/internal/optimizer"
)

func TestSelectGreedy(t *testing.T) {
	tests := []struct {
		name        string
		candidates  models.Catalog
		budget      int
		want        []string
		wantProtein int
	}{
		{
			name:        "discards item that no longer fits",
			candidates:  models.Catalog{food("A", 100, 10), food("B", 100, 20), food("C", 300, 5)},
			budget:      150,
			want:        []string{"B"},
			wantProtein: 20,
		},
		{
			name:        "commits to highest protein first",
			candidates:  models.Catalog{food("X", 60, 10), food("Y", 60, 10), food("Z", 100, 15)},
			budget:      120,
			want:        []string{"Z"},
			wantProtein: 15,
		},
		{
			name:        "ties keep candidate order",
			candidates:  models.Catalog{food("first", 10, 5), food("second", 20, 5), food("third", 30, 5)},
			budget:      1000,
			want:        []string{"first", "second", "third"},
			wantProtein: 15,
		},
		{
			name:        "rejected item is not retried after smaller ones",
			candidates:  models.Catalog{food("big", 90, 9), food("small", 20, 8), food("tiny", 5, 1)},
			budget:      100,
			want:        []string{"big", "tiny"},
			wantProtein: 10,
		},
		{
			name:       "negative budget",
			candidates: models.Catalog{food("A", 0, 10)},
			budget:     -1,
			want:       []string{},
		},
		{
			name:        "zero-energy food fits a zero budget",
			candidates:  models.Catalog{food("free", 0, 3), food("paid", 1, 9)},
			budget:      0,
			want:        []string{"free"},
			wantProtein: 3,
		},
		{
			name:   "empty candidates",
			budget: 500,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := optimizer.SelectGreedy(tt.candidates, tt.budget)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, descriptions(got))
			assert.Equal(t, tt.wantProtein, got.Totals().ProteinGrams)
			if len(got) > 0 {
				assert.LessOrEqual(t, got.Totals().EnergyKcal, tt.budget)
			}
		})
	}
}

func TestSelectGreedy_DoesNotMutateCandidates(t *testing.T) {
	candidates := models.Catalog{food("A", 10, 1), food("B", 10, 3), food("C", 10, 2)}
	before := append(models.Catalog(nil), candidates...)

	_ = optimizer.SelectGreedy(candidates, 20)

	assert.Equal(t, before, candidates)
}
