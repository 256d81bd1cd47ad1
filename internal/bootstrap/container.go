package bootstrap

import (
	"time"

	"research-chat-be/internal/config"
	"research-chat-be/internal/constant"
	"research-chat-be/internal/controller"
	"research-chat-be/internal/pkg/logger"
	"research-chat-be/internal/repository/unitofwork"
	"research-chat-be/internal/service"
	"research-chat-be/pkg/llm/ollama"
	"research-chat-be/pkg/reply"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	TopicController controller.ITopicController
	ChatController  controller.IChatController

	// Background Services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(constant.ChatEventsTopicName, pubSub)
	consumerService := service.NewConsumerService(pubSub, constant.ChatEventsTopicName, sysLogger)

	// 3. LLM Provider + Reply Generator
	llmProvider := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	replyGenerator := reply.NewGenerator(llmProvider, time.Duration(cfg.Ai.TimeoutSeconds)*time.Second)

	// 4. Services
	authService := service.NewAuthService(
		uowFactory,
		cfg.Auth.JwtSecret,
		time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute,
	)
	topicService := service.NewTopicService(uowFactory)
	chatService := service.NewChatService(
		uowFactory,
		topicService,
		replyGenerator,
		publisherService,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		TopicController: controller.NewTopicController(topicService),
		ChatController:  controller.NewChatController(chatService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
