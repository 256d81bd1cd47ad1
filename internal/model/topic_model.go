package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Topic struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string    `gorm:"type:text;not null;index"`
	ShortSummary string    `gorm:"type:text;not null"`
	FullSummary  *string   `gorm:"type:text"`
	Source       string    `gorm:"type:varchar(255);not null;default:'Unknown'"`
	SourceURL    *string   `gorm:"type:text"`

	// The "daily" date this topic belongs to
	Date datatypes.Date `gorm:"not null;index"`

	// Scores shown on the dashboard
	Trendiness     float64 `gorm:"not null;default:0"`
	TechnicalDepth float64 `gorm:"not null;default:0"`
	Practicality   float64 `gorm:"not null;default:0"`

	// Comma-separated tags, e.g. "LLMs,RAG,Long Context"
	TagsCsv *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Topic) TableName() string {
	return "topics"
}
