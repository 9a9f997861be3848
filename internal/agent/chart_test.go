package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractChartFromFencedBlock(t *testing.T) {
	response := "Here are your results:\n```json\n{\"graph_data\": {\"type\": \"bar\", \"data\": {\"labels\": [\"a\"]}}}\n```\nLet me know if you need more."

	chart := extractChart(response, "")
	require.NotNil(t, chart)

	m, ok := chart.(map[string]interface{})
	require.True(t, ok, "expected chart to decode as an object")
	assert.Equal(t, "bar", m["type"])
}

func TestExtractChartFromWholeDocument(t *testing.T) {
	response := `{"graph_data": {"type": "pie"}, "raw_data": []}`

	chart := extractChart(response, "")
	require.NotNil(t, chart)
	assert.Equal(t, "pie", chart.(map[string]interface{})["type"])
}

func TestExtractChartAbsentWithoutMarkerOrBracket(t *testing.T) {
	assert.Nil(t, extractChart("There are 42 rows in the users table.", "how many users are there"))
}

func TestExtractChartGoalTriggersButResponseIsPlainText(t *testing.T) {
	// The goal asks for a chart, but the response holds no structured data.
	assert.Nil(t, extractChart("I would need a query to chart that.", "make me a chart of sales"))
}

func TestExtractChartSwallowsMalformedJSON(t *testing.T) {
	assert.Nil(t, extractChart("{\"graph_data\": {broken", "chart it"))
}

func TestWantsChartIsCaseInsensitiveOnGoal(t *testing.T) {
	assert.True(t, wantsChart("no marker here", "Show me a GRAPH of revenue"))
	assert.False(t, wantsChart("no marker here", "show me revenue"))
}
