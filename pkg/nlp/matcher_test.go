package nlp_test

import (
	"testing"

	"HomeyChat/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	p := nlp.New()

	t.Run("identical after cleaning", func(t *testing.T) {
		assert.Equal(t, 1.0, p.Similarity("Kveldsrutine", "kveldsrutine"))
		assert.Equal(t, 1.0, p.Similarity("KJØKKEN", "kjokken"))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := p.Similarity("kveldsrutine", "kveldsrutina")
		b := p.Similarity("kveldsrutina", "kveldsrutine")
		assert.Equal(t, a, b)
	})

	t.Run("single typo stays high", func(t *testing.T) {
		score := p.Similarity("kveldsrutine", "kveldsrutina")
		assert.Greater(t, score, 0.9)
		assert.Less(t, score, 1.0)
	})

	t.Run("containment scores by length ratio", func(t *testing.T) {
		score := p.Similarity("kjør kveldsrutine", "kveldsrutine")
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 1.0)
	})

	t.Run("unrelated strings stay low", func(t *testing.T) {
		assert.Less(t, p.Similarity("morgenrutine", "kveldsrutine"), 0.7)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, 0.0, p.Similarity("", "kveldsrutine"))
	})
}

func TestFindBestMatches(t *testing.T) {
	p := nlp.New()

	items := []nlp.Item{
		{ID: "flow-1", Name: "Kveldsrutine"},
		{ID: "flow-2", Name: "Morgenrutine"},
	}

	t.Run("exact containment dominates", func(t *testing.T) {
		matches := p.FindBestMatches("kjør kveldsrutine", items)
		require.Len(t, matches, 1)
		assert.Equal(t, "flow-1", matches[0].Item.ID)
		assert.Equal(t, 1.0, matches[0].Score)
		assert.Equal(t, "exact", matches[0].Type)
	})

	t.Run("typo recovered by word coverage", func(t *testing.T) {
		matches := p.FindBestMatches("kjør kveldsrutina", items)
		require.Len(t, matches, 1)
		assert.Equal(t, "flow-1", matches[0].Item.ID)
		assert.Less(t, matches[0].Score, 1.0)
	})

	t.Run("mentioning both names matches both", func(t *testing.T) {
		matches := p.FindBestMatches("kjør morgenrutine og kveldsrutine", items)
		require.Len(t, matches, 2)
		for _, m := range matches {
			assert.Equal(t, 1.0, m.Score)
		}
	})

	t.Run("no match for unrelated text", func(t *testing.T) {
		assert.Empty(t, p.FindBestMatches("fortell meg en vits", items))
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Empty(t, p.FindBestMatches("kjør kveldsrutine", nil))
	})
}
