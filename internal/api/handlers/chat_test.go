package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Chat(ctx context.Context, input service.ChatInput) (*service.ChatOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatOutput), args.Error(1)
}

func (m *MockChatService) ListMessages(ctx context.Context, input service.ListMessagesInput) (*service.ListMessagesOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListMessagesOutput), args.Error(1)
}

func requestWithRouteParam(method, target, param, value string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestChatHandler_Chat_Success(t *testing.T) {
	mockSvc := new(MockChatService)
	handler := NewChatHandler(mockSvc)

	mockSvc.On("Chat", mock.Anything, mock.MatchedBy(func(input service.ChatInput) bool {
		return input.Message == "when is step 1" && input.ConversationID == ""
	})).Return(&service.ChatOutput{
		ConversationID: "conv-123",
		Reply:          "Step 1 is taken after M2.",
	}, nil)

	body := `{"message":"when is step 1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "conv-123", data["conversation_id"])
	assert.Equal(t, "Step 1 is taken after M2.", data["reply"])
	mockSvc.AssertExpectations(t)
}

func TestChatHandler_Chat_ExistingConversation(t *testing.T) {
	mockSvc := new(MockChatService)
	handler := NewChatHandler(mockSvc)

	mockSvc.On("Chat", mock.Anything, mock.MatchedBy(func(input service.ChatInput) bool {
		return input.ConversationID == "conv-123"
	})).Return(&service.ChatOutput{ConversationID: "conv-123", Reply: "ok"}, nil)

	body := `{"message":"more","conversation_id":"conv-123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestChatHandler_Chat_InvalidBody(t *testing.T) {
	handler := NewChatHandler(new(MockChatService))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestChatHandler_Chat_EmptyMessage(t *testing.T) {
	handler := NewChatHandler(new(MockChatService))

	body := `{"message":"   "}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message is required")
}

func TestChatHandler_Chat_ConversationNotFound(t *testing.T) {
	mockSvc := new(MockChatService)
	handler := NewChatHandler(mockSvc)

	mockSvc.On("Chat", mock.Anything, mock.Anything).Return(nil, domain.ErrConversationNotFound)

	body := `{"message":"hi","conversation_id":"conv-999"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Chat(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestChatHandler_ListMessages_Success(t *testing.T) {
	mockSvc := new(MockChatService)
	handler := NewChatHandler(mockSvc)

	created := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	mockSvc.On("ListMessages", mock.Anything, mock.MatchedBy(func(input service.ListMessagesInput) bool {
		return input.ConversationID == "conv-123" && input.Cursor == "abc" && input.Limit == 2
	})).Return(&service.ListMessagesOutput{
		Items: []*domain.Message{
			{ID: "m1", ConversationID: "conv-123", Role: domain.RoleUser, Content: "hi", CreatedAt: created},
			{ID: "m2", ConversationID: "conv-123", Role: domain.RoleAssistant, Content: "hello", CreatedAt: created.Add(time.Millisecond)},
		},
		Cursor:  "next-cursor",
		HasMore: true,
	}, nil)

	req := requestWithRouteParam(http.MethodGet, "/api/conversations/conv-123/messages?cursor=abc&limit=2", "id", "conv-123", nil)
	w := httptest.NewRecorder()

	handler.ListMessages(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "m1", first["id"])
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "2026-03-10T09:30:00Z", first["created_at"])
	assert.Equal(t, "next-cursor", data["cursor"])
	assert.Equal(t, true, data["has_more"])
	mockSvc.AssertExpectations(t)
}

func TestChatHandler_ListMessages_InvalidLimit(t *testing.T) {
	handler := NewChatHandler(new(MockChatService))

	req := requestWithRouteParam(http.MethodGet, "/api/conversations/conv-123/messages?limit=nope", "id", "conv-123", nil)
	w := httptest.NewRecorder()

	handler.ListMessages(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid limit")
}

func TestChatHandler_ListMessages_NotFound(t *testing.T) {
	mockSvc := new(MockChatService)
	handler := NewChatHandler(mockSvc)

	mockSvc.On("ListMessages", mock.Anything, mock.Anything).Return(nil, domain.ErrConversationNotFound)

	req := requestWithRouteParam(http.MethodGet, "/api/conversations/conv-999/messages", "id", "conv-999", nil)
	w := httptest.NewRecorder()

	handler.ListMessages(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}
