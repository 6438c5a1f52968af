package dto

// ChatRequest is the /chatbot request body. A missing session_id gets a
// generated one, echoed back in the response.
type ChatRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
}

// ChatResponse always carries a buttons array (possibly empty) so UI
// clients can render suggestions without nil checks.
type ChatResponse struct {
	Reply     string   `json:"reply"`
	Buttons   []string `json:"buttons"`
	SessionId string   `json:"session_id"`
}
