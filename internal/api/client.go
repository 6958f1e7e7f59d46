package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/bookdesk/internal/models"
	"go.uber.org/zap"
)

// DefaultBaseURL is where the catalog backend listens when run locally.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client talks JSON to the catalog backend. It owns transport concerns only;
// reconciling responses into client state belongs to internal/state.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseError(resp.StatusCode, data)
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, apiErr
	}

	return data, nil
}

// decodeList accepts the two list shapes the backend produces: a bare JSON
// array, or the paginated object {items: [...], meta: {...}}. Anything else
// is a contract violation for that call.
func decodeList[T any](data []byte, endpoint string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		return out, nil
	}
	var page struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &page); err == nil && len(page.Items) > 0 {
		var out []T
		if err := json.Unmarshal(page.Items, &out); err == nil {
			return out, nil
		}
	}
	return nil, fmt.Errorf("unexpected response from %s (expected array or {items: []})", endpoint)
}

func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	data, err := c.do(ctx, http.MethodGet, "/books", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Book](data, "GET /books")
}

func (c *Client) CreateBook(ctx context.Context, draft models.BookDraft) (models.Book, error) {
	data, err := c.do(ctx, http.MethodPost, "/books", draft)
	if err != nil {
		return models.Book{}, err
	}
	var book models.Book
	if err := json.Unmarshal(data, &book); err != nil {
		return models.Book{}, fmt.Errorf("decode POST /books response: %w", err)
	}
	return book, nil
}

func (c *Client) UpdateBook(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error) {
	data, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d", id), patch)
	if err != nil {
		return models.Book{}, err
	}
	var book models.Book
	if err := json.Unmarshal(data, &book); err != nil {
		return models.Book{}, fmt.Errorf("decode PUT /books/%d response: %w", id, err)
	}
	return book, nil
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	// response body is ignored, only the status matters
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil)
	return err
}

func (c *Client) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	q := url.Values{}
	q.Set("user_id", fmt.Sprintf("%d", userID))
	data, err := c.do(ctx, http.MethodGet, "/ai/conversations?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Conversation](data, "GET /ai/conversations")
}

func (c *Client) ListMessages(ctx context.Context, conversationID int64) ([]models.ChatMessage, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/ai/messages/%d", conversationID), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.ChatMessage](data, fmt.Sprintf("GET /ai/messages/%d", conversationID))
}

// ChatResponse is the raw POST /ai/chat result. The backend answers either
// {conversation_id, reply} or {conversation_id, messages: [...]}; both id
// spellings occur, and some deployments omit the reply entirely.
type ChatResponse struct {
	ConversationID int64
	Reply          *string
	Messages       []models.ChatMessage
}

func (r *ChatResponse) UnmarshalJSON(data []byte) error {
	var w struct {
		ConversationID  *int64               `json:"conversation_id"`
		ConversationID2 *int64               `json:"conversationId"`
		Reply           *string              `json:"reply"`
		Messages        []models.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.ConversationID != nil:
		r.ConversationID = *w.ConversationID
	case w.ConversationID2 != nil:
		r.ConversationID = *w.ConversationID2
	}
	r.Reply = w.Reply
	r.Messages = w.Messages
	return nil
}

func (c *Client) SendChat(ctx context.Context, p models.SendPayload) (ChatResponse, error) {
	data, err := c.do(ctx, http.MethodPost, "/ai/chat", p)
	if err != nil {
		return ChatResponse{}, err
	}
	var resp ChatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return ChatResponse{}, fmt.Errorf("decode POST /ai/chat response: %w", err)
	}
	return resp, nil
}
