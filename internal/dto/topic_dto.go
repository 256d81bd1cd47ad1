package dto

import (
	"time"

	"research-chat-be/internal/entity"

	"github.com/google/uuid"
)

type TopicScores struct {
	Trendiness     float64 `json:"trendiness"`
	TechnicalDepth float64 `json:"technical_depth"`
	Practicality   float64 `json:"practicality"`
}

type TopicResponse struct {
	Id           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	ShortSummary string      `json:"short_summary"`
	FullSummary  *string     `json:"full_summary,omitempty"`
	Source       string      `json:"source"`
	SourceURL    *string     `json:"source_url"`
	Date         string      `json:"date"`
	Tags         []string    `json:"tags"`
	Scores       TopicScores `json:"scores"`
	CreatedAt    time.Time   `json:"created_at"`
}

func NewTopicResponse(t *entity.Topic) *TopicResponse {
	return &TopicResponse{
		Id:           t.Id,
		Title:        t.Title,
		ShortSummary: t.ShortSummary,
		FullSummary:  t.FullSummary,
		Source:       t.Source,
		SourceURL:    t.SourceURL,
		Date:         t.Date.Format("2006-01-02"),
		Tags:         t.Tags(),
		Scores: TopicScores{
			Trendiness:     t.Trendiness,
			TechnicalDepth: t.TechnicalDepth,
			Practicality:   t.Practicality,
		},
		CreatedAt: t.CreatedAt,
	}
}

// ListTopicsQuery powers the dashboard filters.
type ListTopicsQuery struct {
	Date   *time.Time
	Tag    string
	Search string
	SortBy string // trendiness | technical_depth | practicality | created_at
	Order  string // asc | desc
}
