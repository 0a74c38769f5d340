package entities

// Channel identifies where an inbound message arrived from.
const (
	ChannelTwilio   = "twilio"
	ChannelWeb      = "web"
	ChannelTelegram = "telegram"
	ChannelCLI      = "cli"
)

// IncomingMessage is the per-request envelope of an inbound text.
type IncomingMessage struct {
	From    string
	To      string
	Body    string
	Channel string // e.g., "twilio", "web", "telegram"
}

// GeneratedReply is the text produced for a single inbound message.
type GeneratedReply struct {
	Text string
}
