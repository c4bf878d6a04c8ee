package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/college-recommender/internal/schemas"
	embedded "github.com/jonathan/college-recommender/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, name := range embedded.Names() {
		t.Run(name, func(t *testing.T) {
			content, err := embedded.Read(name)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(content), &schemaObj), "schema file should be valid JSON: %s", name)

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare type and $schema")
		})
	}
}

func TestRecommendationsSchema_AcceptsRankOutput(t *testing.T) {
	doc := `{
		"factors": ["fee"],
		"recommendations": [
			{
				"recommendation_rank": 1,
				"match_percentage": 50.0,
				"overall_score": 0.5,
				"fee_score": 0.5,
				"reasoning": "Fee: 0.50",
				"college_name": "Cheap College"
			}
		]
	}`

	assert.NoError(t, schemas.ValidateDocument(embedded.Recommendations, []byte(doc)))
}

func TestRecommendationsSchema_RejectsZeroRank(t *testing.T) {
	doc := `{
		"factors": ["fee"],
		"recommendations": [
			{"recommendation_rank": 0, "match_percentage": 50.0, "overall_score": 0.5, "reasoning": "", "college_name": "X"}
		]
	}`

	assert.Error(t, schemas.ValidateDocument(embedded.Recommendations, []byte(doc)))
}
