package messages

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a normalized conversation. Content holds either a
// plain string or ordered content parts; provider adapters flatten the parts
// when their backend does not accept structured content.
type Message struct {
	Role    Role           `json:"role"`
	Content ContentOrParts `json:"content"`
	_       struct{}       // require keyed usage
}

// User builds a user message from plain text.
func User(text string) Message {
	return Message{Role: RoleUser, Content: ContentOrParts{Content: text}}
}

// UserParts builds a user message from structured content parts.
func UserParts(parts ...ContentPart) Message {
	return Message{Role: RoleUser, Content: ContentOrParts{Parts: parts}}
}

// Assistant builds an assistant message from plain text.
func Assistant(text string) Message {
	return Message{Role: RoleAssistant, Content: ContentOrParts{Content: text}}
}
