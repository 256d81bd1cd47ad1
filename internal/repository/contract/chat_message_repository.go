package contract

import (
	"context"

	"research-chat-be/internal/entity"
	"research-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChatMessageRepository is an append-only log per session. Update is
// deliberately absent; messages are never edited after creation.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
