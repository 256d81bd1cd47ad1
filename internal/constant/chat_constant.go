package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

const (
	// Default and maximum page sizes for listing endpoints
	DefaultSessionPageSize = 20
	MaxSessionPageSize     = 100
	DefaultMessagePageSize = 100
	MaxMessagePageSize     = 500
)

const (
	EventChatTurnCompleted   = "CHAT_TURN_COMPLETED"
	EventChatSessionArchived = "CHAT_SESSION_ARCHIVED"
	ChatEventsTopicName      = "CHAT_EVENTS"
)
