package entities

// RouteRule maps a case-insensitive pattern to a canned reply.
type RouteRule struct {
	Pattern string `json:"pattern"`
	Reply   string `json:"reply"`
}

// ChatLogEntry origins.
const (
	OriginUser = "user"
	OriginBot  = "bot"
)

// ChatLogEntry is one line of the web chat history.
type ChatLogEntry struct {
	From string `json:"from"`
	Text string `json:"text"`
}
