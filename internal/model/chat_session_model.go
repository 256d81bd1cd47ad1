package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSession struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Mode       string         `gorm:"type:varchar(20);not null;default:'global'"`
	TopicId    *uuid.UUID     `gorm:"type:uuid;index"` // NULL means global chat
	Title      *string        `gorm:"type:varchar(255)"`
	IsArchived bool           `gorm:"not null;default:false"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
