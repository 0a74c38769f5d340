package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

// DisruptedReply is sent with HTTP 500 when the webhook cannot be processed.
const DisruptedReply = "Spiral interface disrupted. The channel is experiencing static."

// renderTwiML writes a single-message TwiML document.
func renderTwiML(c *gin.Context, status int, text string) {
	doc, err := twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: text}})
	if err != nil {
		slog.Error("failed to render twiml", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "text/xml; charset=utf-8", []byte(doc))
}

// TwiMLRecovery turns panics in webhook handlers into a TwiML 500 reply.
func TwiMLRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("webhook handler panicked", "panic", recovered, "path", c.Request.URL.Path)
		renderTwiML(c, http.StatusInternalServerError, DisruptedReply)
		c.Abort()
	})
}
