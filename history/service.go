//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=../mocks/mock_history_service.go -package=mocks
package history

import (
	"chat-sync/domain/chat"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Service is the remote message-history API.
type Service interface {
	Messages(ctx context.Context, userID chat.UserID, chatID chat.UserID, chatType chat.ChatType) ([]chat.Message, error)
}

// HTTPService fetches history from the REST backend:
// GET {baseURL}/messages/{userId}?chatId=..&type=.. -> {"data":[...]}
type HTTPService struct {
	client  *http.Client
	baseURL string
	token   string
	log     *slog.Logger
}

func NewHTTPService(log *slog.Logger, client *http.Client, baseURL, token string) *HTTPService {
	return &HTTPService{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		log:     log,
	}
}

type messagesResponse struct {
	Data []wireMessage `json:"data"`
}

type errorResponse struct {
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors"`
}

type fieldError struct {
	Msg string `json:"msg"`
}

type wireMessage struct {
	ID        string        `json:"_id"`
	Sender    chat.UserID   `json:"sender"`
	Receiver  chat.UserID   `json:"receiver"`
	Type      chat.ChatType `json:"type"`
	Body      string        `json:"message"`
	Readers   []chat.UserID `json:"readers"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (s *HTTPService) Messages(ctx context.Context, userID chat.UserID, chatID chat.UserID, chatType chat.ChatType) ([]chat.Message, error) {
	endpoint := fmt.Sprintf("%s/messages/%s?%s", s.baseURL, url.PathEscape(string(userID)), url.Values{
		"chatId": {string(chatID)},
		"type":   {string(chatType)},
	}.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	if s.token != "" {
		request.Header.Set("Authorization", "Bearer "+s.token)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", response.StatusCode, describeError(body))
	}

	var payload messagesResponse
	if err = json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	s.log.Debug("History fetched", "chat_id", chatID, "type", chatType, "count", len(payload.Data))
	return lo.Map(payload.Data, func(item wireMessage, _ int) chat.Message {
		return toMessage(item)
	}), nil
}

func toMessage(w wireMessage) chat.Message {
	m := chat.NewMessage(w.ID, w.Sender, w.Receiver, w.Type, w.Body, w.CreatedAt)
	m.Readers = lo.Uniq(w.Readers)
	return m
}

// describeError extracts the backend validation messages, falling back to the raw body.
func describeError(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return strings.TrimSpace(string(body))
	}
	if len(e.Errors) > 0 {
		return strings.Join(lo.Map(e.Errors, func(item fieldError, _ int) string {
			return item.Msg
		}), "; ")
	}
	return e.Message
}
