package openai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spartanmed/medchat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChatAPI is a mock for the OpenAI chat completion API
type MockChatAPI struct {
	mock.Mock
}

func (m *MockChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestClient_GenerateText_Success(t *testing.T) {
	mockAPI := new(MockChatAPI)
	client := &Client{api: mockAPI, model: DefaultChatModel}

	ctx := context.Background()
	mockAPI.On("CreateChatCompletion", ctx, mock.Anything).Return(completionWith("Step 1 is pass/fail."), nil)

	text, err := client.GenerateText(ctx, "system prompt", nil, "tell me about step 1", 800, 0.4)

	assert.NoError(t, err)
	assert.Equal(t, "Step 1 is pass/fail.", text)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateText_BuildsMessageSequence(t *testing.T) {
	mockAPI := new(MockChatAPI)
	client := &Client{api: mockAPI, model: DefaultChatModel}

	var captured openai.ChatCompletionRequest
	mockAPI.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(openai.ChatCompletionRequest)
		}).
		Return(completionWith("ok"), nil)

	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "first question"},
		{Role: domain.RoleAssistant, Content: "first answer"},
	}

	_, err := client.GenerateText(context.Background(), "sys", history, "second question", 800, 0.4)
	require.NoError(t, err)

	require.Len(t, captured.Messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, captured.Messages[0].Role)
	assert.Equal(t, "sys", captured.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, captured.Messages[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, captured.Messages[2].Role)
	assert.Equal(t, "second question", captured.Messages[3].Content)
	assert.Equal(t, 800, captured.MaxTokens)
	assert.Equal(t, float32(0.4), captured.Temperature)
	assert.Equal(t, DefaultChatModel, captured.Model)
}

func TestClient_GenerateText_EmptyPrompt(t *testing.T) {
	client := NewClient("")

	text, err := client.GenerateText(context.Background(), "sys", nil, "", 800, 0.4)

	assert.Error(t, err)
	assert.Empty(t, text)
	assert.Equal(t, ErrEmptyPrompt, err)
}

func TestClient_GenerateText_APIError(t *testing.T) {
	mockAPI := new(MockChatAPI)
	client := &Client{api: mockAPI, model: DefaultChatModel}

	apiErr := errors.New("API rate limit exceeded")
	mockAPI.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, apiErr)

	text, err := client.GenerateText(context.Background(), "sys", nil, "question", 800, 0.4)

	assert.Error(t, err)
	assert.Empty(t, text)
	assert.Contains(t, err.Error(), "failed to create chat completion")
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateText_NoChoices(t *testing.T) {
	mockAPI := new(MockChatAPI)
	client := &Client{api: mockAPI, model: DefaultChatModel}

	mockAPI.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, nil)

	text, err := client.GenerateText(context.Background(), "sys", nil, "question", 800, 0.4)

	assert.Error(t, err)
	assert.Empty(t, text)
}

func TestNewClientFromEnv_NoAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	client, err := NewClientFromEnv()

	assert.Nil(t, client)
	assert.Equal(t, ErrNoAPIKey, err)
}

func TestNewClientFromEnv_WithAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-api-key")

	client, err := NewClientFromEnv()

	assert.NotNil(t, client)
	assert.NoError(t, err)
}
