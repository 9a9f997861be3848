package apimodels

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type AskResponse struct {
	// The agent's textual answer
	Response string `json:"response"`

	// Chart-ready payload, present only when the query produced one
	GraphData interface{} `json:"graph_data"`

	// Orchestration-level outcome: "success" or "error". Independent of the
	// HTTP status code.
	Status string `json:"status"`
}
