package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"flipkart-recommender/internal/apperr"
	"flipkart-recommender/internal/dto"
	"flipkart-recommender/internal/service"
)

const sessionCookieName = "session_id"

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Index)
	r.Post("/chat", c.Chat)
}

func (c *chatController) Index(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.IndexResponse{
		Service:   "flipkart-product-recommender",
		Endpoints: []string{"POST /chat", "GET /metrics"},
	})
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	sessionID := c.ensureSession(ctx)
	ctx.Locals("session_id", sessionID)

	if !hasFormField(ctx, "msg") {
		return apperr.InvalidInput("missing_input", "Missing required field: msg")
	}

	answer, err := c.service.Answer(ctx.Context(), sessionID, ctx.FormValue("msg"))
	if err != nil {
		return err
	}

	return ctx.JSON(dto.ChatResponse{
		Answer: answer,
		Status: "success",
	})
}

// hasFormField reports whether the field is present in the request body,
// whether urlencoded or multipart. Presence is distinct from emptiness: an
// empty value is still a present field.
func hasFormField(ctx *fiber.Ctx, name string) bool {
	if ctx.Request().PostArgs().Has(name) {
		return true
	}
	if form, err := ctx.MultipartForm(); err == nil {
		if _, ok := form.Value[name]; ok {
			return true
		}
	}
	return false
}

// ensureSession reads the opaque session token from the cookie, minting and
// setting one when the caller has none yet.
func (c *chatController) ensureSession(ctx *fiber.Ctx) string {
	if sessionID := ctx.Cookies(sessionCookieName); sessionID != "" {
		return sessionID
	}

	sessionID := uuid.NewString()
	ctx.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
	return sessionID
}
