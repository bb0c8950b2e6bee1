package llm

import "context"

// Message is one turn of the coaching conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client generates one assistant reply for a full transcript. The
// transcript is passed whole on every call; clients keep no state.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
