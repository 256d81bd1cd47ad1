package mapper

import (
	"time"

	"research-chat-be/internal/entity"
	"research-chat-be/internal/model"

	"gorm.io/datatypes"
)

type TopicMapper struct{}

func NewTopicMapper() *TopicMapper {
	return &TopicMapper{}
}

func (m *TopicMapper) TopicToEntity(t *model.Topic) *entity.Topic {
	if t == nil {
		return nil
	}

	return &entity.Topic{
		Id:             t.Id,
		Title:          t.Title,
		ShortSummary:   t.ShortSummary,
		FullSummary:    t.FullSummary,
		Source:         t.Source,
		SourceURL:      t.SourceURL,
		Date:           time.Time(t.Date),
		Trendiness:     t.Trendiness,
		TechnicalDepth: t.TechnicalDepth,
		Practicality:   t.Practicality,
		TagsCsv:        t.TagsCsv,
		CreatedAt:      t.CreatedAt,
	}
}

func (m *TopicMapper) TopicToModel(t *entity.Topic) *model.Topic {
	if t == nil {
		return nil
	}

	return &model.Topic{
		Id:             t.Id,
		Title:          t.Title,
		ShortSummary:   t.ShortSummary,
		FullSummary:    t.FullSummary,
		Source:         t.Source,
		SourceURL:      t.SourceURL,
		Date:           datatypes.Date(t.Date),
		Trendiness:     t.Trendiness,
		TechnicalDepth: t.TechnicalDepth,
		Practicality:   t.Practicality,
		TagsCsv:        t.TagsCsv,
		CreatedAt:      t.CreatedAt,
	}
}

func (m *TopicMapper) TopicsToEntities(models []*model.Topic) []*entity.Topic {
	entities := make([]*entity.Topic, len(models))
	for i, t := range models {
		entities[i] = m.TopicToEntity(t)
	}
	return entities
}
