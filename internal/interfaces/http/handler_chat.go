package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// HandleChatMessage answers POST /message {message} with {reply}.
func (h *Handler) HandleChatMessage(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	reply := h.chat.Send(c.Request.Context(), cleanText(req.Message))
	c.JSON(http.StatusOK, chatResponse{Reply: reply})
}

// HandleChatHistory returns the full chat history.
func (h *Handler) HandleChatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.chat.History())
}

// HandleVoicePage serves the browser chat with voice input and spoken replies.
func (h *Handler) HandleVoicePage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(voicePage))
}

// HandleQRCode returns a PNG QR code that opens a chat with the Console.
func (h *Handler) HandleQRCode(c *gin.Context) {
	if h.qrLink == "" {
		c.String(http.StatusNotFound, "No sender number configured")
		return
	}

	png, err := qrcode.Encode(h.qrLink, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// ChatLink builds the link a phone opens to start chatting with sender, a
// provider address such as "whatsapp:+14155238886" or "+14155238886".
func ChatLink(sender string) string {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return ""
	}
	if number, ok := strings.CutPrefix(sender, "whatsapp:"); ok {
		return "https://wa.me/" + strings.TrimPrefix(number, "+")
	}
	return "sms:" + sender
}
