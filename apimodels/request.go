package apimodels

type AskRequest struct {
	// Prompt is the natural language goal to orchestrate
	Prompt string `json:"prompt"`

	// FileContent is accepted for frontend compatibility but unused
	FileContent string `json:"file_content,omitempty"`

	// ChatHistory is accepted for frontend compatibility but unused
	ChatHistory []ChatMessage `json:"chat_history,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
