package models

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message for TUI display
type Message struct {
	Role    Role
	Content string
}

// UserMessage creates a message authored by the user
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates a message authored by the assistant
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Transcript is the ordered, append-only list of messages of one session.
// The zero value is an empty transcript ready to use.
type Transcript struct {
	messages []Message
}

// Append adds a message at the end of the transcript
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the messages in append order
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// LastAnswer returns the content of the most recent assistant message
func (t *Transcript) LastAnswer() (string, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == RoleAssistant {
			return t.messages[i].Content, true
		}
	}
	return "", false
}
