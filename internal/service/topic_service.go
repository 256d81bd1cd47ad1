package service

import (
	"context"
	"time"

	"research-chat-be/internal/dto"
	"research-chat-be/internal/entity"
	"research-chat-be/internal/pkg/serverutils"
	"research-chat-be/internal/repository/specification"
	"research-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// TopicLookup is the catalog collaborator consumed by the chat core. A nil
// topic with a nil error means the topic no longer exists.
type TopicLookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (*entity.Topic, error)
}

type ITopicService interface {
	TopicLookup
	GetAll(ctx context.Context, q *dto.ListTopicsQuery) ([]*dto.TopicResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.TopicResponse, error)
}

var topicSortFields = map[string]string{
	"trendiness":      "trendiness",
	"technical_depth": "technical_depth",
	"practicality":    "practicality",
	"created_at":      "created_at",
}

type topicService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
}

func NewTopicService(uowFactory unitofwork.RepositoryFactory) ITopicService {
	return &topicService{
		uowFactory: uowFactory,
		// Topics are immutable once ingested, a short TTL is plenty
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (ts *topicService) GetAll(ctx context.Context, q *dto.ListTopicsQuery) ([]*dto.TopicResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	specs := make([]specification.Specification, 0, 4)
	if q.Date != nil {
		specs = append(specs, specification.ByDate{Date: *q.Date})
	}
	if q.Tag != "" {
		specs = append(specs, specification.ByTag{Tag: q.Tag})
	}
	if q.Search != "" {
		specs = append(specs, specification.SearchIn{
			Fields: []string{"title", "short_summary"},
			Term:   q.Search,
		})
	}

	sortField, ok := topicSortFields[q.SortBy]
	if !ok {
		sortField = "created_at"
	}
	specs = append(specs, specification.OrderBy{Field: sortField, Desc: q.Order != "asc"})

	topics, err := uow.TopicRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		result = append(result, dto.NewTopicResponse(t))
	}
	return result, nil
}

func (ts *topicService) Show(ctx context.Context, id uuid.UUID) (*dto.TopicResponse, error) {
	topic, err := ts.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, serverutils.NewNotFoundError("topic not found")
	}
	return dto.NewTopicResponse(topic), nil
}

func (ts *topicService) Lookup(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	key := id.String()
	if cached, found := ts.cache.Get(key); found {
		return cached.(*entity.Topic), nil
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)
	topic, err := uow.TopicRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, nil
	}

	ts.cache.Set(key, topic, gocache.DefaultExpiration)
	return topic, nil
}
