package api

import (
	"strings"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/lounge-chat/lounge/src/hub"
	"github.com/lounge-chat/lounge/src/service"
	"github.com/lounge-chat/lounge/src/store"
)

var upgrader = websocket.FastHTTPUpgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The chat is open to any origin, matching the permissive CORS policy
	// of the REST API.
	CheckOrigin: func(*fasthttp.RequestCtx) bool { return true },
}

// API wires the chat service into HTTP: REST routes via Fiber, and the
// WebSocket upgrade as a raw fasthttp handler since Fiber v3 does not
// expose *fasthttp.RequestCtx.
type API struct {
	hub     *hub.Hub
	service *service.Service
	logger  zerolog.Logger
}

// New creates the HTTP API over the given hub and service.
func New(h *hub.Hub, svc *service.Service, logger zerolog.Logger) *API {
	return &API{
		hub:     h,
		service: svc,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// Register mounts the REST routes on a Fiber router. The chat frontend is
// served from another origin, so every route allows any origin.
func (a *API) Register(router fiber.Router) {
	router.Use(cors.New(cors.Config{AllowOrigins: []string{"*"}}))

	router.Get("/", a.handleIndex)
	router.Get("/api/messages", a.handleListMessages)
	router.Post("/api/messages", a.handlePostMessage)
	router.Get("/ws/info", a.handleInfo)
}

func (a *API) handleIndex(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "Chat API is running",
		"endpoints": fiber.Map{
			"GET /api/messages":  "Get all messages",
			"POST /api/messages": "Send a message",
			"WebSocket":          "Connect to /ws for real-time chat",
		},
	})
}

func (a *API) handleListMessages(c fiber.Ctx) error {
	messages, err := a.service.ListMessages(c.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("list messages failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if messages == nil {
		messages = []store.Message{}
	}
	return c.JSON(fiber.Map{"messages": messages})
}

type postMessageRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (a *API) handlePostMessage(c fiber.Ctx) error {
	var req postMessageRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	msg, err := a.service.PostMessage(c.Context(), req.Username, req.Message)
	if err != nil {
		a.logger.Error().Err(err).Msg("post message failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": msg})
}

func (a *API) handleInfo(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"websocket":    true,
		"endpoint":     "/ws",
		"clients":      a.service.ClientCount(),
		"joined":       a.service.JoinedCount(),
		"active_users": a.service.ActiveUsers(),
	})
}

// WebsocketHandler returns a raw fasthttp handler for WebSocket upgrades.
// Register it in front of the Fiber handler at the "/ws" path.
func (a *API) WebsocketHandler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		upgrade := string(ctx.Request.Header.Peek("Upgrade"))
		if !strings.EqualFold(upgrade, "websocket") {
			ctx.SetStatusCode(fasthttp.StatusUpgradeRequired)
			ctx.SetBodyString(`{"error":"upgrade_required","message":"WebSocket upgrade required"}`)
			return
		}

		clientID := uuid.New().String()
		err := upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
			client := hub.NewClient(clientID, &fasthttpConn{conn}, a.hub)
			a.hub.Register(client)
			go client.WritePump()
			client.ReadPump()
		})
		if err != nil {
			a.logger.Error().Err(err).Msg("websocket upgrade failed")
		}
	}
}

// fasthttpConn wraps fasthttp/websocket.Conn to satisfy types.Conn.
type fasthttpConn struct {
	conn *websocket.Conn
}

func (f *fasthttpConn) WriteJSON(v any) error { return f.conn.WriteJSON(v) }
func (f *fasthttpConn) ReadJSON(v any) error  { return f.conn.ReadJSON(v) }
func (f *fasthttpConn) Close() error          { return f.conn.Close() }
