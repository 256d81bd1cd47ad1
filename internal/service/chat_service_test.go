package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"research-chat-be/internal/constant"
	"research-chat-be/internal/dto"
	"research-chat-be/internal/entity"
	"research-chat-be/internal/pkg/serverutils"
	"research-chat-be/internal/repository/contract"
	"research-chat-be/internal/repository/specification"
	"research-chat-be/internal/repository/unitofwork"
	"research-chat-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory fakes ---

type memoryStore struct {
	sessions map[uuid.UUID]*entity.ChatSession
	messages []*entity.ChatMessage
	topics   map[uuid.UUID]*entity.Topic
	users    map[uuid.UUID]*entity.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: make(map[uuid.UUID]*entity.ChatSession),
		topics:   make(map[uuid.UUID]*entity.Topic),
		users:    make(map[uuid.UUID]*entity.User),
	}
}

type memoryUow struct {
	store *memoryStore
}

func (u *memoryUow) Begin(ctx context.Context) error { return nil }
func (u *memoryUow) Commit() error                   { return nil }
func (u *memoryUow) Rollback() error                 { return nil }

func (u *memoryUow) UserRepository() contract.UserRepository {
	return &memoryUserRepo{store: u.store}
}
func (u *memoryUow) TopicRepository() contract.TopicRepository {
	return &memoryTopicRepo{store: u.store}
}
func (u *memoryUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &memorySessionRepo{store: u.store}
}
func (u *memoryUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &memoryMessageRepo{store: u.store}
}

type memoryFactory struct {
	store *memoryStore
}

func (f *memoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memoryUow{store: f.store}
}

type memorySessionRepo struct {
	store *memoryStore
}

func sessionMatches(s *entity.ChatSession, spec specification.Specification) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return s.Id == sp.ID
	case specification.UserOwnedBy:
		return s.UserId == sp.UserID
	case specification.NotArchived:
		return !s.IsArchived
	case specification.ByMode:
		return string(s.Mode) == sp.Mode
	case specification.ByTopicID:
		return s.TopicId != nil && *s.TopicId == sp.TopicID
	default:
		return true
	}
}

func (r *memorySessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *memorySessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *memorySessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.sessions, id)
	return nil
}

func (r *memorySessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.store.sessions {
		matched := true
		for _, spec := range specs {
			if !sessionMatches(s, spec) {
				matched = false
				break
			}
		}
		if matched {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memorySessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var result []*entity.ChatSession
	var orderDesc bool
	limit, offset := -1, 0

	filters := make([]specification.Specification, 0, len(specs))
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.OrderBy:
			orderDesc = sp.Desc
		case specification.Pagination:
			limit, offset = sp.Limit, sp.Offset
		default:
			filters = append(filters, spec)
		}
	}

	for _, s := range r.store.sessions {
		matched := true
		for _, f := range filters {
			if !sessionMatches(s, f) {
				matched = false
				break
			}
		}
		if matched {
			copied := *s
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if orderDesc {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].UpdatedAt.Before(result[j].UpdatedAt)
	})

	if offset > 0 {
		if offset >= len(result) {
			return nil, nil
		}
		result = result[offset:]
	}
	if limit >= 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *memorySessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memoryMessageRepo struct {
	store *memoryStore
}

func messageMatches(m *entity.ChatMessage, spec specification.Specification) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return m.Id == sp.ID
	case specification.ByChatSessionID:
		return m.ChatSessionId == sp.ChatSessionID
	default:
		return true
	}
}

func (r *memoryMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	copied := *message
	r.store.messages = append(r.store.messages, &copied)
	return nil
}

func (r *memoryMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	kept := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *memoryMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	for _, m := range r.store.messages {
		matched := true
		for _, spec := range specs {
			if !messageMatches(m, spec) {
				matched = false
				break
			}
		}
		if matched {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var result []*entity.ChatMessage
	limit, offset := -1, 0

	filters := make([]specification.Specification, 0, len(specs))
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.OrderBy:
			// Insertion order already matches created_at,id ASC
		case specification.Pagination:
			limit, offset = sp.Limit, sp.Offset
		default:
			filters = append(filters, sp)
		}
	}

	for _, m := range r.store.messages {
		matched := true
		for _, f := range filters {
			if !messageMatches(m, f) {
				matched = false
				break
			}
		}
		if matched {
			copied := *m
			result = append(result, &copied)
		}
	}

	if offset > 0 {
		if offset >= len(result) {
			return nil, nil
		}
		result = result[offset:]
	}
	if limit >= 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *memoryMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memoryTopicRepo struct {
	store *memoryStore
}

func (r *memoryTopicRepo) Create(ctx context.Context, topic *entity.Topic) error {
	copied := *topic
	r.store.topics[topic.Id] = &copied
	return nil
}

func (r *memoryTopicRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Topic, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if t, found := r.store.topics[byId.ID]; found {
				copied := *t
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *memoryTopicRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Topic, error) {
	var result []*entity.Topic
	for _, t := range r.store.topics {
		copied := *t
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memoryTopicRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.topics)), nil
}

type memoryUserRepo struct {
	store *memoryStore
}

func userMatches(u *entity.User, spec specification.Specification) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return u.Id == sp.ID
	case specification.ByEmail:
		return u.Email == sp.Email
	default:
		return true
	}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	copied := *user
	r.store.users[user.Id] = &copied
	return nil
}

func (r *memoryUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.users {
		matched := true
		for _, spec := range specs {
			if !userMatches(u, spec) {
				matched = false
				break
			}
		}
		if matched {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.users)), nil
}

// --- Collaborator stubs ---

type stubReplyGenerator struct {
	reply      string
	lastPrompt string
	lastMode   entity.ChatSessionMode
	lastTopic  *entity.Topic
}

func (s *stubReplyGenerator) Generate(ctx context.Context, userMessage string, mode entity.ChatSessionMode, topic *entity.Topic) string {
	s.lastPrompt = userMessage
	s.lastMode = mode
	s.lastTopic = topic
	return s.reply
}

type stubTopicLookup struct {
	topics map[uuid.UUID]*entity.Topic
	err    error
}

func (s *stubTopicLookup) Lookup(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.topics[id], nil
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error {
	return nil
}

type fixture struct {
	store     *memoryStore
	replies   *stubReplyGenerator
	topics    *stubTopicLookup
	publisher *recordingPublisher
	service   IChatService
}

func newFixture() *fixture {
	store := newMemoryStore()
	replies := &stubReplyGenerator{reply: "assistant says hi"}
	topics := &stubTopicLookup{topics: make(map[uuid.UUID]*entity.Topic)}
	publisher := &recordingPublisher{}

	svc := NewChatService(
		&memoryFactory{store: store},
		topics,
		replies,
		publisher,
		noopLogger{},
	)

	return &fixture{
		store:     store,
		replies:   replies,
		topics:    topics,
		publisher: publisher,
		service:   svc,
	}
}

func (f *fixture) seedSession(userId uuid.UUID, mode entity.ChatSessionMode, topicId *uuid.UUID) *entity.ChatSession {
	now := time.Now()
	s := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Mode:      mode,
		TopicId:   topicId,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.store.sessions[s.Id] = s
	return s
}

// --- Tests ---

func TestCreateSessionValidation(t *testing.T) {
	topicId := uuid.New()

	tests := []struct {
		name    string
		req     dto.CreateSessionRequest
		wantErr bool
	}{
		{
			name:    "global without topic is valid",
			req:     dto.CreateSessionRequest{Mode: "global"},
			wantErr: false,
		},
		{
			name:    "topic with topic_id is valid",
			req:     dto.CreateSessionRequest{Mode: "topic", TopicId: &topicId},
			wantErr: false,
		},
		{
			name:    "unknown mode is rejected",
			req:     dto.CreateSessionRequest{Mode: "group"},
			wantErr: true,
		},
		{
			name:    "topic without topic_id is rejected",
			req:     dto.CreateSessionRequest{Mode: "topic"},
			wantErr: true,
		},
		{
			name:    "global with topic_id is rejected",
			req:     dto.CreateSessionRequest{Mode: "global", TopicId: &topicId},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			userId := uuid.New()

			res, err := f.service.CreateSession(context.Background(), userId, &tt.req)
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := serverutils.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, serverutils.KindValidation, appErr.Kind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userId, res.UserId)
			assert.Equal(t, tt.req.Mode, res.Mode)
			assert.False(t, res.IsArchived)
			assert.Equal(t, res.CreatedAt, res.UpdatedAt)
			assert.Contains(t, f.store.sessions, res.Id)
		})
	}
}

func TestGetSessionOwnership(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	stranger := uuid.New()
	session := f.seedSession(owner, entity.ChatSessionModeGlobal, nil)

	t.Run("owner sees the session", func(t *testing.T) {
		res, err := f.service.GetSession(context.Background(), owner, session.Id)
		require.NoError(t, err)
		assert.Equal(t, session.Id, res.Id)
	})

	t.Run("missing and foreign sessions are indistinguishable", func(t *testing.T) {
		_, errMissing := f.service.GetSession(context.Background(), owner, uuid.New())
		_, errForeign := f.service.GetSession(context.Background(), stranger, session.Id)

		require.Error(t, errMissing)
		require.Error(t, errForeign)
		assert.Equal(t, errMissing.Error(), errForeign.Error())

		appErr, ok := serverutils.AsAppError(errForeign)
		require.True(t, ok)
		assert.Equal(t, serverutils.KindNotFound, appErr.Kind)
	})
}

func TestListSessionsFiltering(t *testing.T) {
	f := newFixture()
	userId := uuid.New()
	otherUser := uuid.New()
	topicId := uuid.New()

	active := f.seedSession(userId, entity.ChatSessionModeGlobal, nil)
	topical := f.seedSession(userId, entity.ChatSessionModeTopic, &topicId)
	archived := f.seedSession(userId, entity.ChatSessionModeGlobal, nil)
	archived.IsArchived = true
	f.seedSession(otherUser, entity.ChatSessionModeGlobal, nil)

	t.Run("archived and foreign sessions are hidden by default", func(t *testing.T) {
		res, err := f.service.ListSessions(context.Background(), userId, &dto.ListSessionsQuery{})
		require.NoError(t, err)
		require.Len(t, res, 2)
		for _, s := range res {
			assert.Equal(t, userId, s.UserId)
			assert.False(t, s.IsArchived)
		}
	})

	t.Run("include_archived surfaces archived sessions", func(t *testing.T) {
		res, err := f.service.ListSessions(context.Background(), userId, &dto.ListSessionsQuery{IncludeArchived: true})
		require.NoError(t, err)
		assert.Len(t, res, 3)
	})

	t.Run("mode filter", func(t *testing.T) {
		res, err := f.service.ListSessions(context.Background(), userId, &dto.ListSessionsQuery{Mode: "topic"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, topical.Id, res[0].Id)
	})

	t.Run("topic filter", func(t *testing.T) {
		res, err := f.service.ListSessions(context.Background(), userId, &dto.ListSessionsQuery{TopicId: &topicId})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, topical.Id, res[0].Id)
	})

	t.Run("most recently active first", func(t *testing.T) {
		active.UpdatedAt = time.Now().Add(time.Hour)
		res, err := f.service.ListSessions(context.Background(), userId, &dto.ListSessionsQuery{})
		require.NoError(t, err)
		require.NotEmpty(t, res)
		assert.Equal(t, active.Id, res[0].Id)
	})
}

func TestListSessionsClampsPagination(t *testing.T) {
	f := newFixture()
	userId := uuid.New()
	for i := 0; i < constant.MaxSessionPageSize+10; i++ {
		f.seedSession(userId, entity.ChatSessionModeGlobal, nil)
	}

	t.Run("zero limit falls back to default", func(t *testing.T) {
		res, err := f.service.ListSessions(context.Background(), userId, &dto.ListSessionsQuery{})
		require.NoError(t, err)
		assert.Len(t, res, constant.DefaultSessionPageSize)
	})

	t.Run("oversized limit is capped", func(t *testing.T) {
		res, err := f.service.ListSessions(context.Background(), userId, &dto.ListSessionsQuery{Limit: 10000})
		require.NoError(t, err)
		assert.Len(t, res, constant.MaxSessionPageSize)
	})

	t.Run("negative offset is treated as zero", func(t *testing.T) {
		res, err := f.service.ListSessions(context.Background(), userId, &dto.ListSessionsQuery{Limit: 5, Offset: -3})
		require.NoError(t, err)
		assert.Len(t, res, 5)
	})
}

func TestArchiveSession(t *testing.T) {
	f := newFixture()
	userId := uuid.New()
	session := f.seedSession(userId, entity.ChatSessionModeGlobal, nil)
	before := session.UpdatedAt

	err := f.service.ArchiveSession(context.Background(), userId, session.Id)
	require.NoError(t, err)

	stored := f.store.sessions[session.Id]
	assert.True(t, stored.IsArchived)
	assert.True(t, stored.UpdatedAt.After(before))

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, constant.EventChatSessionArchived, f.publisher.published[0].EventType())

	t.Run("archiving twice is a no-op success", func(t *testing.T) {
		err := f.service.ArchiveSession(context.Background(), userId, session.Id)
		require.NoError(t, err)
		assert.True(t, f.store.sessions[session.Id].IsArchived)
	})

	t.Run("archived session remains readable", func(t *testing.T) {
		res, err := f.service.GetSession(context.Background(), userId, session.Id)
		require.NoError(t, err)
		assert.True(t, res.IsArchived)
	})
}

func TestSendMessage(t *testing.T) {
	t.Run("empty content is rejected before any write", func(t *testing.T) {
		f := newFixture()
		userId := uuid.New()
		session := f.seedSession(userId, entity.ChatSessionModeGlobal, nil)

		_, err := f.service.SendMessage(context.Background(), userId, session.Id, &dto.SendMessageRequest{Content: "   \n "})
		require.Error(t, err)
		appErr, ok := serverutils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, serverutils.KindValidation, appErr.Kind)
		assert.Empty(t, f.store.messages)
	})

	t.Run("a turn appends exactly one user and one assistant message", func(t *testing.T) {
		f := newFixture()
		userId := uuid.New()
		session := f.seedSession(userId, entity.ChatSessionModeGlobal, nil)

		res, err := f.service.SendMessage(context.Background(), userId, session.Id, &dto.SendMessageRequest{Content: "  hello there  "})
		require.NoError(t, err)

		require.Len(t, res.Messages, 2)
		userMsg, assistantMsg := res.Messages[0], res.Messages[1]

		assert.Equal(t, constant.ChatMessageRoleUser, userMsg.Role)
		assert.Equal(t, "hello there", userMsg.Content)
		assert.Equal(t, constant.ChatMessageRoleAssistant, assistantMsg.Role)
		assert.Equal(t, "assistant says hi", assistantMsg.Content)
		assert.False(t, assistantMsg.CreatedAt.Before(userMsg.CreatedAt))

		// Recency bump matches the assistant message time
		assert.Equal(t, assistantMsg.CreatedAt, res.Session.UpdatedAt)
		assert.Equal(t, assistantMsg.CreatedAt, f.store.sessions[session.Id].UpdatedAt)

		require.Len(t, f.store.messages, 2)
		require.Len(t, f.publisher.published, 1)
		assert.Equal(t, constant.EventChatTurnCompleted, f.publisher.published[0].EventType())
	})

	t.Run("topic session passes grounding context to the generator", func(t *testing.T) {
		f := newFixture()
		userId := uuid.New()
		topic := &entity.Topic{Id: uuid.New(), Title: "RAG", ShortSummary: "retrieval"}
		f.topics.topics[topic.Id] = topic
		session := f.seedSession(userId, entity.ChatSessionModeTopic, &topic.Id)

		_, err := f.service.SendMessage(context.Background(), userId, session.Id, &dto.SendMessageRequest{Content: "explain"})
		require.NoError(t, err)

		assert.Equal(t, entity.ChatSessionModeTopic, f.replies.lastMode)
		require.NotNil(t, f.replies.lastTopic)
		assert.Equal(t, topic.Id, f.replies.lastTopic.Id)
	})

	t.Run("vanished topic degrades to an uncontextualized turn", func(t *testing.T) {
		f := newFixture()
		userId := uuid.New()
		missingTopicId := uuid.New()
		session := f.seedSession(userId, entity.ChatSessionModeTopic, &missingTopicId)

		res, err := f.service.SendMessage(context.Background(), userId, session.Id, &dto.SendMessageRequest{Content: "explain"})
		require.NoError(t, err)
		assert.Nil(t, f.replies.lastTopic)
		assert.Len(t, res.Messages, 2)
	})

	t.Run("topic lookup failure never fails the turn", func(t *testing.T) {
		f := newFixture()
		f.topics.err = assert.AnError
		userId := uuid.New()
		topicId := uuid.New()
		session := f.seedSession(userId, entity.ChatSessionModeTopic, &topicId)

		res, err := f.service.SendMessage(context.Background(), userId, session.Id, &dto.SendMessageRequest{Content: "explain"})
		require.NoError(t, err)
		assert.Nil(t, f.replies.lastTopic)
		assert.Len(t, res.Messages, 2)
	})

	t.Run("sending to a foreign session is not found", func(t *testing.T) {
		f := newFixture()
		session := f.seedSession(uuid.New(), entity.ChatSessionModeGlobal, nil)

		_, err := f.service.SendMessage(context.Background(), uuid.New(), session.Id, &dto.SendMessageRequest{Content: "hi"})
		require.Error(t, err)
		appErr, ok := serverutils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, serverutils.KindNotFound, appErr.Kind)
		assert.Empty(t, f.store.messages)
	})
}

func TestListMessages(t *testing.T) {
	f := newFixture()
	userId := uuid.New()
	session := f.seedSession(userId, entity.ChatSessionModeGlobal, nil)
	other := f.seedSession(userId, entity.ChatSessionModeGlobal, nil)

	for i := 0; i < 3; i++ {
		_, err := f.service.SendMessage(context.Background(), userId, session.Id, &dto.SendMessageRequest{Content: "ping"})
		require.NoError(t, err)
	}
	_, err := f.service.SendMessage(context.Background(), userId, other.Id, &dto.SendMessageRequest{Content: "elsewhere"})
	require.NoError(t, err)

	t.Run("returns the session transcript in order", func(t *testing.T) {
		res, err := f.service.ListMessages(context.Background(), userId, session.Id, &dto.ListMessagesQuery{})
		require.NoError(t, err)
		require.Len(t, res, 6)

		for i, m := range res {
			assert.Equal(t, session.Id, m.ChatSessionId)
			if i%2 == 0 {
				assert.Equal(t, constant.ChatMessageRoleUser, m.Role)
			} else {
				assert.Equal(t, constant.ChatMessageRoleAssistant, m.Role)
			}
		}
	})

	t.Run("pagination window", func(t *testing.T) {
		res, err := f.service.ListMessages(context.Background(), userId, session.Id, &dto.ListMessagesQuery{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, constant.ChatMessageRoleUser, res[0].Role)
	})

	t.Run("foreign session transcript is not found", func(t *testing.T) {
		_, err := f.service.ListMessages(context.Background(), uuid.New(), session.Id, &dto.ListMessagesQuery{})
		require.Error(t, err)
		appErr, ok := serverutils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, serverutils.KindNotFound, appErr.Kind)
	})
}
