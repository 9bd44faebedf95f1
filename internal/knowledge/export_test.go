package knowledge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestExportJSON(t *testing.T) {
	store := testStore(t)
	seedSearchRules(t, store)

	path := filepath.Join(t.TempDir(), "exports", "rules.json")
	require.NoError(t, store.ExportJSON(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	// total_rules always agrees with the rules array and the live stats.
	assert.Equal(t, len(doc.Rules), doc.TotalRules)
	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.TotalRules, doc.TotalRules)

	_, err = time.Parse(time.RFC3339, doc.ExportDate)
	assert.NoError(t, err, "export_date must be RFC3339")

	// Authority levels export as lowercase names, not numeric ranks.
	for _, r := range doc.Rules {
		assert.Contains(t,
			[]string{"classical", "traditional", "modern", "commentary"},
			r.Source.Authority)
		assert.NotEmpty(t, r.ID)
		assert.NotEmpty(t, r.OriginalText)
		assert.NotEmpty(t, r.Effects)
	}
}

func TestExportJSONFlattenedShape(t *testing.T) {
	store := testStore(t)
	seedSearchRules(t, store)

	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, store.ExportJSON(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Inspect the raw document to pin the wire field names.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "export_date")
	require.Contains(t, raw, "total_rules")
	require.Contains(t, raw, "rules")

	rules := raw["rules"].([]any)
	require.NotEmpty(t, rules)
	first := rules[0].(map[string]any)
	for _, field := range []string{"id", "original_text", "conditions", "effects", "source", "confidence_score", "tags"} {
		assert.Contains(t, first, field)
	}
	source := first["source"].(map[string]any)
	assert.Contains(t, source, "authority_level")
}

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	seedSearchRules(t, store)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, store.ExportYAML(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc ExportDocument
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, len(doc.Rules), doc.TotalRules)
	assert.Equal(t, 4, doc.TotalRules)
}

func TestExportEmptyBase(t *testing.T) {
	store := testStore(t)

	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, store.ExportJSON(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Zero(t, doc.TotalRules)
	assert.Empty(t, doc.Rules)
}
