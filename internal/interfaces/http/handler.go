package http

import (
	"log/slog"
	"net/http"

	"arkadia_console/internal/entities"
	"arkadia_console/internal/usecases"

	"github.com/gin-gonic/gin"
)

// OnlineReply answers the health probe.
const OnlineReply = "The Arkadia Console is online."

type Handler struct {
	replies    *usecases.ReplyService
	dispatcher *usecases.Dispatcher // nil = synchronous replies
	chat       *usecases.ChatService
	qrLink     string
}

func NewHandler(replies *usecases.ReplyService, dispatcher *usecases.Dispatcher, chat *usecases.ChatService, qrLink string) *Handler {
	return &Handler{
		replies:    replies,
		dispatcher: dispatcher,
		chat:       chat,
		qrLink:     qrLink,
	}
}

// RouteOptions configures optional route guards.
type RouteOptions struct {
	TwilioAuthToken        string // non-empty enables signature checks
	PublicBaseURL          string
	ChatRateLimitPerMinute int
}

func SetupRoutes(r *gin.Engine, h *Handler, middleware *Middleware, opts RouteOptions) {
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(MaxRequestBytes))
	r.Use(middleware.CORSMiddleware())

	// Provider webhook
	webhook := r.Group("/")
	webhook.Use(TwiMLRecovery())
	if opts.TwilioAuthToken != "" {
		webhook.Use(TwilioSignature(opts.TwilioAuthToken, opts.PublicBaseURL))
	}
	{
		webhook.POST("/twilio-webhook", h.HandleTwilioWebhook)
		webhook.POST("/webhook/twilio", h.HandleTwilioWebhook)
	}

	// Web chat
	r.GET("/", h.HandleVoicePage)
	r.GET("/healthz", h.HandleHealth)
	r.GET("/qr", h.HandleQRCode)
	r.POST("/message", middleware.RateLimitPerClient(opts.ChatRateLimitPerMinute), h.HandleChatMessage)
	r.GET("/messages", middleware.HistoryAuth(), h.HandleChatHistory)
}

// HandleTwilioWebhook answers an inbound provider message.
// Empty bodies and keyword matches are answered inline in both modes. In
// async mode everything else gets an acknowledgement now and the generated
// reply later, through the send API.
func (h *Handler) HandleTwilioWebhook(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		slog.Error("failed to parse webhook form", "error", err)
		renderTwiML(c, http.StatusInternalServerError, DisruptedReply)
		return
	}

	msg := entities.IncomingMessage{
		From:    c.Request.PostForm.Get("From"),
		To:      c.Request.PostForm.Get("To"),
		Body:    cleanText(c.Request.PostForm.Get("Body")),
		Channel: entities.ChannelTwilio,
	}
	slog.Info("webhook message received", "from", msg.From, "length", len(msg.Body))

	if text, source, ok := h.replies.Quick(msg.Body); ok {
		slog.Debug("webhook answered inline", "source", source)
		renderTwiML(c, http.StatusOK, text)
		return
	}

	if h.dispatcher != nil && msg.From != "" && msg.To != "" {
		taskID := h.dispatcher.Deliver(c.Request.Context(), msg)
		slog.Info("reply scheduled", "task", taskID)
		renderTwiML(c, http.StatusOK, usecases.AckReply)
		return
	}

	text, _ := h.replies.Reply(c.Request.Context(), msg.Body)
	renderTwiML(c, http.StatusOK, text)
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.String(http.StatusOK, OnlineReply)
}
