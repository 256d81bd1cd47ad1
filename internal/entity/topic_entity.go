package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Topic is a daily research topic shown on the dashboard. Tags are stored
// as a comma-separated string (e.g. "LLMs,RAG,Agents") to avoid an extra
// table.
type Topic struct {
	Id             uuid.UUID
	Title          string
	ShortSummary   string
	FullSummary    *string
	Source         string
	SourceURL      *string
	Date           time.Time
	Trendiness     float64
	TechnicalDepth float64
	Practicality   float64
	TagsCsv        *string
	CreatedAt      time.Time
}

func (t *Topic) Tags() []string {
	if t.TagsCsv == nil {
		return []string{}
	}
	parts := strings.Split(*t.TagsCsv, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// Summary returns the text used as grounding context for topic chats.
// Falls back to the short summary when no full summary was ingested.
func (t *Topic) Summary() string {
	if t.FullSummary != nil && *t.FullSummary != "" {
		return *t.FullSummary
	}
	return t.ShortSummary
}
