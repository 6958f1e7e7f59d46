package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Conversation groups chat messages for one user. Timestamps are kept as the
// opaque strings the backend sends; the client never parses them.
type Conversation struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ChatMessage is one entry in a conversation. Locally synthesized messages
// (the user echo, the "(no reply)" placeholder) carry no server id.
type ChatMessage struct {
	ID             int64  `json:"id,omitempty"`
	ConversationID int64  `json:"conversation_id"`
	Role           Role   `json:"role"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// SendPayload is the POST /ai/chat request body. ConversationID zero means
// "start a new conversation"; Title is only honored for new ones.
type SendPayload struct {
	UserID         int64  `json:"user_id"`
	Message        string `json:"message"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	Title          string `json:"title,omitempty"`
}
