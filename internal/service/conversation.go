package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spartanmed/medchat/internal/domain"
	"github.com/spartanmed/medchat/internal/pagination"
	"github.com/spartanmed/medchat/internal/telemetry"
)

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// ConversationRepositoryInterface defines the repository interface for
// conversation persistence.
type ConversationRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	Touch(ctx context.Context, id string, at time.Time) error
	CreateMessage(ctx context.Context, m *domain.Message) error
	ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]*domain.Message, error)
	ListMessagesWithCursor(ctx context.Context, conversationID string, cursor *pagination.Cursor, limit int) (*MessagePageResult, error)
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type MessagePageResult struct {
	Items      []*domain.Message
	NextCursor string
	HasMore    bool
}

// Responder produces the assistant reply for one message. Implementations
// never fail; every input yields text.
type Responder interface {
	Answer(ctx context.Context, message string, history []domain.Turn) string
}

// ConversationService ties chat responses to persisted conversations: it
// resolves the conversation, feeds trailing history to the responder, and
// stores the user/assistant turn pair atomically.
type ConversationService struct {
	repo      ConversationRepositoryInterface
	txRunner  TxRunner
	responder Responder
	uuidGen   UUIDGenerator
}

// NewConversationService creates a new ConversationService instance.
func NewConversationService(repo ConversationRepositoryInterface, txRunner TxRunner, responder Responder) *ConversationService {
	return &ConversationService{
		repo:      repo,
		txRunner:  txRunner,
		responder: responder,
		uuidGen:   &DefaultUUIDGenerator{},
	}
}

// NewConversationServiceWithUUIDGen creates a ConversationService with a
// custom UUID generator (for testing).
func NewConversationServiceWithUUIDGen(repo ConversationRepositoryInterface, txRunner TxRunner, responder Responder, uuidGen UUIDGenerator) *ConversationService {
	return &ConversationService{
		repo:      repo,
		txRunner:  txRunner,
		responder: responder,
		uuidGen:   uuidGen,
	}
}

type ChatInput struct {
	ConversationID string
	Message        string
}

type ChatOutput struct {
	ConversationID string
	Reply          string
}

// Chat handles one inbound chat message: it loads (or creates) the
// conversation, produces the reply, and persists both turns in one
// transaction.
func (s *ConversationService) Chat(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "ConversationService.Chat", telemetry.SpanAttributes{
		ConversationID: input.ConversationID,
		Operation:      "chat",
	})
	defer span.End()

	if strings.TrimSpace(input.Message) == "" {
		return nil, domain.ErrEmptyMessage
	}

	now := time.Now().UTC()

	conversationID := input.ConversationID
	if conversationID == "" {
		conversationID = s.uuidGen.NewString()
		conversation := &domain.Conversation{
			ID:        conversationID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, conversation); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.repo.GetByID(ctx, conversationID); err != nil {
			return nil, err
		}
	}

	recent, err := s.repo.ListRecentMessages(ctx, conversationID, historyWindow)
	if err != nil {
		return nil, err
	}

	history := make([]domain.Turn, len(recent))
	for i, m := range recent {
		history[i] = domain.Turn{Role: m.Role, Content: m.Content}
	}

	reply := s.responder.Answer(ctx, input.Message, history)

	userMsg := &domain.Message{
		ID:             s.uuidGen.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        input.Message,
		CreatedAt:      now,
	}
	assistantMsg := &domain.Message{
		ID:             s.uuidGen.NewString(),
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        reply,
		// Assistant turn sorts after the user turn it answers.
		CreatedAt: now.Add(time.Millisecond),
	}

	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		conversations := repos.Conversations()
		if err := conversations.CreateMessage(ctx, userMsg); err != nil {
			return err
		}
		if err := conversations.CreateMessage(ctx, assistantMsg); err != nil {
			return err
		}
		return conversations.Touch(ctx, conversationID, now)
	})
	if err != nil {
		return nil, err
	}

	return &ChatOutput{
		ConversationID: conversationID,
		Reply:          reply,
	}, nil
}

type ListMessagesInput struct {
	ConversationID string
	Cursor         string
	Limit          int
}

type ListMessagesOutput struct {
	Items   []*domain.Message
	Cursor  string
	HasMore bool
}

// ListMessages returns a page of a conversation's messages, oldest first.
func (s *ConversationService) ListMessages(ctx context.Context, input ListMessagesInput) (*ListMessagesOutput, error) {
	if _, err := s.repo.GetByID(ctx, input.ConversationID); err != nil {
		return nil, err
	}

	cursor, _ := pagination.DecodeCursor(input.Cursor)
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result, err := s.repo.ListMessagesWithCursor(ctx, input.ConversationID, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &ListMessagesOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}
