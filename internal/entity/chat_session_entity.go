package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSessionMode string

const (
	ChatSessionModeGlobal ChatSessionMode = "global"
	ChatSessionModeTopic  ChatSessionMode = "topic"
)

// ChatSession is a single conversation thread owned by one user.
// TopicId is set iff Mode is "topic".
type ChatSession struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Mode       ChatSessionMode
	TopicId    *uuid.UUID
	Title      *string
	IsArchived bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
