package controller

import (
	"time"

	"research-chat-be/internal/dto"
	"research-chat-be/internal/pkg/serverutils"
	"research-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITopicController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type topicController struct {
	service service.ITopicService
}

func NewTopicController(service service.ITopicService) ITopicController {
	return &topicController{service: service}
}

func (c *topicController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/topics/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
}

func (c *topicController) GetAll(ctx *fiber.Ctx) error {
	q := dto.ListTopicsQuery{
		Tag:    ctx.Query("tag"),
		Search: ctx.Query("search"),
		SortBy: ctx.Query("sort_by", "created_at"),
		Order:  ctx.Query("order", "desc"),
	}
	if dateStr := ctx.Query("date"); dateStr != "" {
		if date, err := time.Parse("2006-01-02", dateStr); err == nil {
			q.Date = &date
		}
	}

	res, err := c.service.GetAll(ctx.Context(), &q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all topics", res))
}

func (c *topicController) Show(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show topic", res))
}
