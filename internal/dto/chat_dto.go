package dto

import (
	"time"

	"research-chat-be/internal/entity"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Mode    string     `json:"mode" validate:"required,oneof=global topic"`
	TopicId *uuid.UUID `json:"topic_id"`
	Title   *string    `json:"title" validate:"omitempty,max=255"`
}

type ChatSessionResponse struct {
	Id         uuid.UUID  `json:"id"`
	UserId     uuid.UUID  `json:"user_id"`
	Mode       string     `json:"mode"`
	TopicId    *uuid.UUID `json:"topic_id"`
	Title      *string    `json:"title"`
	IsArchived bool       `json:"is_archived"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func NewChatSessionResponse(s *entity.ChatSession) *ChatSessionResponse {
	return &ChatSessionResponse{
		Id:         s.Id,
		UserId:     s.UserId,
		Mode:       string(s.Mode),
		TopicId:    s.TopicId,
		Title:      s.Title,
		IsArchived: s.IsArchived,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// ListSessionsQuery carries the session listing filters. Mode and TopicId
// are optional; archived sessions are hidden unless requested.
type ListSessionsQuery struct {
	Mode            string
	TopicId         *uuid.UUID
	IncludeArchived bool
	Limit           int
	Offset          int
}

type ChatMessageResponse struct {
	Id            uuid.UUID `json:"id"`
	ChatSessionId uuid.UUID `json:"session_id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewChatMessageResponse(m *entity.ChatMessage) *ChatMessageResponse {
	return &ChatMessageResponse{
		Id:            m.Id,
		ChatSessionId: m.ChatSessionId,
		Role:          m.Role,
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
	}
}

type ListMessagesQuery struct {
	Limit  int
	Offset int
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ChatTurnResponse is returned after one full turn: the refreshed session
// plus the user and assistant messages in creation order.
type ChatTurnResponse struct {
	Session  *ChatSessionResponse   `json:"session"`
	Messages []*ChatMessageResponse `json:"messages"`
}
