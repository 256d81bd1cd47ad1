package service

import (
	"context"
	"strings"
	"time"

	"research-chat-be/internal/constant"
	"research-chat-be/internal/dto"
	"research-chat-be/internal/entity"
	"research-chat-be/internal/pkg/logger"
	"research-chat-be/internal/pkg/serverutils"
	"research-chat-be/internal/repository/specification"
	"research-chat-be/internal/repository/unitofwork"
	"research-chat-be/pkg/events"

	"github.com/google/uuid"
)

// ReplyGenerator produces the assistant text for one turn. It is total:
// implementations convert upstream failures into fallback text instead of
// returning an error.
type ReplyGenerator interface {
	Generate(ctx context.Context, userMessage string, mode entity.ChatSessionMode, topic *entity.Topic) string
}

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.ChatSessionResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ChatSessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID, q *dto.ListSessionsQuery) ([]*dto.ChatSessionResponse, error)
	ArchiveSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	ListMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, q *dto.ListMessagesQuery) ([]*dto.ChatMessageResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatTurnResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	topics     TopicLookup
	replies    ReplyGenerator
	publisher  IPublisherService
	sysLogger  logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	topics TopicLookup,
	replies ReplyGenerator,
	publisher IPublisherService,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		topics:     topics,
		replies:    replies,
		publisher:  publisher,
		sysLogger:  sysLogger,
	}
}

// findOwnedSession loads a session and checks ownership in one guarded
// query. A missing session and a session owned by someone else produce the
// same not-found error, so existence is never leaked.
func (cs *chatService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("chat session not found")
	}
	return session, nil
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.ChatSessionResponse, error) {
	mode := entity.ChatSessionMode(req.Mode)
	switch mode {
	case entity.ChatSessionModeGlobal, entity.ChatSessionModeTopic:
	default:
		return nil, serverutils.NewValidationError("mode must be 'global' or 'topic'")
	}

	// Mode and topic binding are fixed at creation and never change
	if mode == entity.ChatSessionModeTopic && req.TopicId == nil {
		return nil, serverutils.NewValidationError("topic_id is required when mode='topic'")
	}
	if mode == entity.ChatSessionModeGlobal && req.TopicId != nil {
		return nil, serverutils.NewValidationError("topic_id must be null when mode='global'")
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	session := entity.ChatSession{
		Id:         uuid.New(),
		UserId:     userId,
		Mode:       mode,
		TopicId:    req.TopicId,
		Title:      req.Title,
		IsArchived: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return dto.NewChatSessionResponse(&session), nil
}

func (cs *chatService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	return dto.NewChatSessionResponse(session), nil
}

func (cs *chatService) ListSessions(ctx context.Context, userId uuid.UUID, q *dto.ListSessionsQuery) ([]*dto.ChatSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	specs := make([]specification.Specification, 0, 6)
	specs = append(specs, specification.UserOwnedBy{UserID: userId})

	if !q.IncludeArchived {
		specs = append(specs, specification.NotArchived{})
	}
	switch q.Mode {
	case string(entity.ChatSessionModeGlobal), string(entity.ChatSessionModeTopic):
		specs = append(specs, specification.ByMode{Mode: q.Mode})
	}
	if q.TopicId != nil {
		specs = append(specs, specification.ByTopicID{TopicID: *q.TopicId})
	}

	// Most recently active first
	specs = append(specs,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{
			Limit:  clampLimit(q.Limit, constant.DefaultSessionPageSize, constant.MaxSessionPageSize),
			Offset: clampOffset(q.Offset),
		},
	)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, dto.NewChatSessionResponse(s))
	}
	return result, nil
}

// ArchiveSession soft-hides a session. Archiving twice is fine; the flag is
// monotonic and there is no un-archive operation.
func (cs *chatService) ArchiveSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	session.IsArchived = true
	session.UpdatedAt = time.Now()

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	cs.publishEvent(ctx, constant.EventChatSessionArchived, map[string]interface{}{
		"session_id": session.Id.String(),
		"user_id":    session.UserId.String(),
	})

	return nil
}

func (cs *chatService) ListMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, q *dto.ListMessagesQuery) ([]*dto.ChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	// Chronological reading order; id breaks created_at ties so the two
	// messages of one turn never flip.
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.OrderBy{Field: "id", Desc: false},
		specification.Pagination{
			Limit:  clampLimit(q.Limit, constant.DefaultMessagePageSize, constant.MaxMessagePageSize),
			Offset: clampOffset(q.Offset),
		},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, dto.NewChatMessageResponse(m))
	}
	return result, nil
}

// SendMessage runs one full turn: append the user message, generate a reply,
// append the assistant message and refresh the session. The user append
// commits before generation so the input is never lost on a degraded reply
// path; the assistant append and the updated_at bump commit together.
//
// Two overlapping turns on the same session are not serialized; each appends
// its own pair and updated_at reflects whichever finishes last.
func (cs *chatService) SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatTurnResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, serverutils.NewValidationError("message content must not be empty")
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       content,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}

	// Best-effort topic resolution: a topic deleted out from under the
	// session degrades the prompt context, never the turn.
	var topic *entity.Topic
	if session.Mode == entity.ChatSessionModeTopic && session.TopicId != nil {
		topic, err = cs.topics.Lookup(ctx, *session.TopicId)
		if err != nil {
			cs.sysLogger.Warn("chat", "topic lookup failed, generating without context", map[string]interface{}{
				"topic_id": session.TopicId.String(),
				"error":    err.Error(),
			})
			topic = nil
		}
	}

	replyText := cs.replies.Generate(ctx, content, session.Mode, topic)

	replyAt := time.Now()
	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       replyText,
		CreatedAt:     replyAt,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, err
	}

	// Recency reflects completed turns, so the bump uses the reply time
	session.UpdatedAt = replyAt
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.publishEvent(ctx, constant.EventChatTurnCompleted, map[string]interface{}{
		"session_id": session.Id.String(),
		"user_id":    session.UserId.String(),
		"mode":       string(session.Mode),
	})

	return &dto.ChatTurnResponse{
		Session: dto.NewChatSessionResponse(session),
		Messages: []*dto.ChatMessageResponse{
			dto.NewChatMessageResponse(&userMessage),
			dto.NewChatMessageResponse(&assistantMessage),
		},
	}, nil
}

func (cs *chatService) publishEvent(ctx context.Context, eventType string, payload map[string]interface{}) {
	if cs.publisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now(),
	}
	if err := cs.publisher.Publish(ctx, evt); err != nil {
		cs.sysLogger.Warn("chat", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
