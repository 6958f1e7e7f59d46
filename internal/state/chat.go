package state

import (
	"context"
	"errors"
	"time"

	"github.com/xaenox/bookdesk/internal/api"
	"github.com/xaenox/bookdesk/internal/models"
)

// titleLimit caps the synthesized title of a conversation created by a send.
const titleLimit = 40

const noReplyPlaceholder = "(no reply)"

// ChatAPI is the slice of the HTTP client the chat module needs.
type ChatAPI interface {
	ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID int64) ([]models.ChatMessage, error)
	SendChat(ctx context.Context, p models.SendPayload) (api.ChatResponse, error)
}

// ChatState owns the conversation list, the per-conversation message history
// and the in-flight status of the three chat operations. The loading flags
// are independent; Busy is their OR.
type ChatState struct {
	UserID                int64
	Conversations         []models.Conversation
	MessagesByConv        map[int64][]models.ChatMessage
	CurrentConversationID int64 // 0 when no conversation is selected

	LoadingConversations bool
	LoadingMessages      bool
	Sending              bool

	Err string
}

func NewChatState(userID int64) *ChatState {
	return &ChatState{
		UserID:         userID,
		MessagesByConv: make(map[int64][]models.ChatMessage),
	}
}

// Settled operation results.
type (
	ConversationsFetched struct {
		Conversations []models.Conversation
		Err           error
	}
	MessagesFetched struct {
		ConversationID int64
		Messages       []models.ChatMessage
		Err            error
	}
	MessageSent struct {
		ConversationID int64
		UserEcho       models.ChatMessage
		Replies        []models.ChatMessage
		Title          string
		UserID         int64
		Err            error
	}
)

func FetchConversations(ctx context.Context, chatAPI ChatAPI, userID int64) ConversationsFetched {
	convs, err := chatAPI.ListConversations(ctx, userID)
	if err != nil {
		return ConversationsFetched{Err: chatError(err, "Failed to load conversations")}
	}
	return ConversationsFetched{Conversations: convs}
}

func FetchMessages(ctx context.Context, chatAPI ChatAPI, conversationID int64) MessagesFetched {
	msgs, err := chatAPI.ListMessages(ctx, conversationID)
	if err != nil {
		return MessagesFetched{ConversationID: conversationID, Err: chatError(err, "Failed to load messages")}
	}
	return MessagesFetched{ConversationID: conversationID, Messages: msgs}
}

// SendMessage posts to /ai/chat and derives everything the reducer needs:
// the effective conversation id (response id when present, else the one from
// the request), a local echo of the user's message, and the normalized
// assistant replies. The backend never echoes the user message back, hence
// the local synthesis.
func SendMessage(ctx context.Context, chatAPI ChatAPI, p models.SendPayload) MessageSent {
	resp, err := chatAPI.SendChat(ctx, p)
	if err != nil {
		return MessageSent{Err: chatError(err, "Send failed")}
	}

	cid := resp.ConversationID
	if cid == 0 {
		cid = p.ConversationID
	}

	now := time.Now().UTC().Format(time.RFC3339)
	echo := models.ChatMessage{
		ConversationID: cid,
		Role:           models.RoleUser,
		Content:        p.Message,
		CreatedAt:      now,
	}

	var replies []models.ChatMessage
	switch {
	case resp.Reply != nil:
		replies = []models.ChatMessage{{
			ConversationID: cid,
			Role:           models.RoleAssistant,
			Content:        *resp.Reply,
			CreatedAt:      now,
		}}
	case resp.Messages != nil:
		// full-history shape: keep everything that is not the user's side
		for _, m := range resp.Messages {
			if m.Role != models.RoleUser {
				replies = append(replies, m)
			}
		}
	}
	if len(replies) == 0 {
		replies = []models.ChatMessage{{
			ConversationID: cid,
			Role:           models.RoleAssistant,
			Content:        noReplyPlaceholder,
			CreatedAt:      now,
		}}
	}

	return MessageSent{
		ConversationID: cid,
		UserEcho:       echo,
		Replies:        replies,
		Title:          p.Title,
		UserID:         p.UserID,
	}
}

func (s *ChatState) BeginConversations() {
	s.LoadingConversations = true
	s.Err = ""
}

func (s *ChatState) BeginMessages() {
	s.LoadingMessages = true
	s.Err = ""
}

func (s *ChatState) BeginSend() {
	s.Sending = true
	s.Err = ""
}

// Apply reconciles one settled message into the state.
func (s *ChatState) Apply(msg any) {
	switch m := msg.(type) {
	case ConversationsFetched:
		s.LoadingConversations = false
		if m.Err != nil {
			s.Err = m.Err.Error()
			return
		}
		s.Conversations = m.Conversations
	case MessagesFetched:
		s.LoadingMessages = false
		if m.Err != nil {
			s.Err = m.Err.Error()
			return
		}
		// destructive refresh: any prior entry for this id is replaced
		s.MessagesByConv[m.ConversationID] = m.Messages
	case MessageSent:
		s.Sending = false
		if m.Err != nil {
			s.Err = m.Err.Error()
			return
		}
		if s.MessagesByConv == nil {
			s.MessagesByConv = make(map[int64][]models.ChatMessage)
		}
		msgs := s.MessagesByConv[m.ConversationID]
		msgs = append(msgs, m.UserEcho)
		msgs = append(msgs, m.Replies...)
		s.MessagesByConv[m.ConversationID] = msgs

		if !s.hasConversation(m.ConversationID) {
			title := m.Title
			if title == "" {
				title = truncate(m.UserEcho.Content, titleLimit)
			}
			conv := models.Conversation{
				ID:        m.ConversationID,
				UserID:    m.UserID,
				Title:     title,
				CreatedAt: m.UserEcho.CreatedAt,
			}
			s.Conversations = append([]models.Conversation{conv}, s.Conversations...)
		}

		// sending always focuses the conversation it targeted
		s.CurrentConversationID = m.ConversationID
	}
}

// SetCurrentConversation selects the active conversation; zero clears the
// selection. Switching also clears the error slot.
func (s *ChatState) SetCurrentConversation(id int64) {
	s.CurrentConversationID = id
	s.Err = ""
}

func (s *ChatState) SetUserID(id int64) {
	s.UserID = id
}

// Reset drops everything except the user id.
func (s *ChatState) Reset() {
	s.Conversations = nil
	s.MessagesByConv = make(map[int64][]models.ChatMessage)
	s.CurrentConversationID = 0
	s.LoadingConversations = false
	s.LoadingMessages = false
	s.Sending = false
	s.Err = ""
}

// CurrentMessages returns the active conversation's history, nil when no
// conversation is selected or nothing was fetched yet.
func (s *ChatState) CurrentMessages() []models.ChatMessage {
	if s.CurrentConversationID == 0 {
		return nil
	}
	return s.MessagesByConv[s.CurrentConversationID]
}

// Busy reports whether any chat operation is in flight.
func (s *ChatState) Busy() bool {
	return s.LoadingConversations || s.LoadingMessages || s.Sending
}

func (s *ChatState) hasConversation(id int64) bool {
	for _, c := range s.Conversations {
		if c.ID == id {
			return true
		}
	}
	return false
}

// chatError surfaces the backend's detail when there is one, otherwise the
// operation's fixed fallback message.
func chatError(err error, fallback string) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.DetailMessage(); msg != "" {
			return errors.New(msg)
		}
	}
	return errors.New(fallback)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
