package contract

import (
	"context"

	"research-chat-be/internal/entity"
	"research-chat-be/internal/repository/specification"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *entity.Topic) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Topic, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Topic, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
