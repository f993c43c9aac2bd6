package api

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/domain"
	"github.com/EIAxelHamilcaro/eva-homecafe-app-sub001/internal/service"
)

// Handler adapts the messaging use cases to HTTP. All business failures
// arrive as kinded domain errors; statusFromError maps the kind, never the
// message text.
type Handler struct {
	conversations *service.ConversationService
	messages      *service.MessageService
	notifier      *service.Notifier
}

func NewHandler(conversations *service.ConversationService, messages *service.MessageService, notifier *service.Notifier) *Handler {
	return &Handler{conversations: conversations, messages: messages, notifier: notifier}
}

func statusFromError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return fiber.StatusUnprocessableEntity
	case domain.KindUnauthorized:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	var derr *domain.Error
	code := ""
	if errors.As(err, &derr) {
		code = derr.Code
	}
	return c.Status(status).JSON(fiber.Map{"status": "error", "code": code, "message": msg})
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"status": "success", "data": data})
}

type createConversationRequest struct {
	RecipientID string `json:"recipient_id"`
}

func (h *Handler) createConversation(c *fiber.Ctx) error {
	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	conv, isNew, err := h.conversations.Create(c.Context(), userID(c), req.RecipientID)
	if err != nil {
		return fail(c, err)
	}
	status := fiber.StatusOK
	if isNew {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"status": "success", "data": conv, "is_new": isNew})
}

func (h *Handler) listConversations(c *fiber.Ctx) error {
	before := parseBefore(c.Query("before"))
	convs, err := h.conversations.List(c.Context(), userID(c), int64(c.QueryInt("limit", 50)), before)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, convs)
}

func (h *Handler) markConversationRead(c *fiber.Ctx) error {
	readAt, err := h.conversations.MarkRead(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"read_at": readAt})
}

func (h *Handler) deleteConversation(c *fiber.Ctx) error {
	if err := h.conversations.Delete(c.Context(), c.Params("id"), userID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type sendMessageRequest struct {
	Content     string                   `json:"content"`
	Attachments []domain.AttachmentInput `json:"attachments"`
}

func (h *Handler) sendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	msg, err := h.messages.Send(c.Context(), c.Params("id"), userID(c), req.Content, req.Attachments)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, msg)
}

func (h *Handler) listMessages(c *fiber.Ctx) error {
	before := parseBefore(c.Query("before"))
	msgs, err := h.messages.History(c.Context(), c.Params("id"), userID(c), int64(c.QueryInt("limit", 50)), before)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, msgs)
}

type editMessageRequest struct {
	Content string `json:"content"`
}

func (h *Handler) editMessage(c *fiber.Ctx) error {
	var req editMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	msg, err := h.messages.Edit(c.Context(), c.Params("id"), userID(c), req.Content)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, msg)
}

func (h *Handler) deleteMessage(c *fiber.Ctx) error {
	if err := h.messages.Delete(c.Context(), c.Params("id"), userID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

func (h *Handler) addReaction(c *fiber.Ctx) error {
	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	msg, err := h.messages.AddReaction(c.Context(), c.Params("id"), userID(c), req.Emoji)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, msg)
}

func (h *Handler) removeReaction(c *fiber.Ctx) error {
	// Emoji arrive percent-encoded on the path.
	emoji, err := url.QueryUnescape(c.Params("emoji"))
	if err != nil {
		return fiber.ErrBadRequest
	}
	msg, err := h.messages.RemoveReaction(c.Context(), c.Params("id"), userID(c), emoji)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, msg)
}

func (h *Handler) listNotifications(c *fiber.Ctx) error {
	notifs, err := h.notifier.List(c.Context(), userID(c), int64(c.QueryInt("limit", 50)))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, notifs)
}

func parseBefore(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
