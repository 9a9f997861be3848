package agent

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// chartMarker is the field name tools emit around chart descriptors.
const chartMarker = "graph_data"

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// extractChart pulls an embedded chart descriptor out of a response.
// Trigger: the response contains the graph_data marker, or the goal mentions
// a chart/graph. Extraction failures are logged and swallowed; chart data is
// always optional.
func extractChart(response, goal string) interface{} {
	if !wantsChart(response, goal) {
		return nil
	}

	if m := fencedBlock.FindStringSubmatch(response); m != nil {
		if gd := graphDataField(m[1]); gd != nil {
			return gd
		}
	}

	trimmed := strings.TrimSpace(response)
	if strings.HasPrefix(trimmed, "{") {
		return graphDataField(trimmed)
	}
	return nil
}

func wantsChart(response, goal string) bool {
	if strings.Contains(response, chartMarker) {
		return true
	}
	g := strings.ToLower(goal)
	return strings.Contains(g, "chart") || strings.Contains(g, "graph")
}

// graphDataField parses doc as JSON and returns its graph_data field, or nil.
func graphDataField(doc string) interface{} {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		slog.Debug("chart extraction: response is not a JSON object", "error", err)
		return nil
	}

	raw, ok := parsed[chartMarker]
	if !ok {
		return nil
	}

	var chart interface{}
	if err := json.Unmarshal(raw, &chart); err != nil {
		slog.Debug("chart extraction: graph_data field is not valid JSON", "error", err)
		return nil
	}
	return chart
}
