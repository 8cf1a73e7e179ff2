package dto

// ChatMessage is one turn of an AI conversation
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the body of the AI chat endpoint. The full history is sent on every call.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,dive"`
}

// ChatResponse is the assistant reply
type ChatResponse struct {
	Reply    string `json:"reply"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}
