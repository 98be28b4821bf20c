// Package llm provides the chat backends aigit talks to and the registry
// that selects one by platform name.
package llm

// Role is the author of a chat message.
type Role string

// Conversational roles. The wire format accepts any string.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a conversation. Order within a slice is meaningful.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body sent to chat backends. Stream is always false:
// callers block for one complete reply.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// NewChatRequest builds a non-streaming request.
func NewChatRequest(model string, messages []ChatMessage) ChatRequest {
	return ChatRequest{Model: model, Messages: messages, Stream: false}
}

// System returns a system message.
func System(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// User returns a user message.
func User(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}
