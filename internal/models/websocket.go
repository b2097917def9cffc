package models

// WebSocket event types
const (
	EventLiveUpdate   = "live.update"
	EventSessionState = "session.state"
	EventNavigate     = "navigate"
	EventAuth         = "auth"
	EventError        = "error"
)

type WSMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// WSLivePayload carries the current embed; Embed is nil when nothing is live.
type WSLivePayload struct {
	Embed *LiveEmbed `json:"embed"`
}

type WSAuthPayload struct {
	Token string `json:"token"`
	Path  string `json:"path,omitempty"`
}

type WSNavigatePayload struct {
	Target string `json:"target"`
}

type WSSessionPayload struct {
	Decision string `json:"decision"`
	Target   string `json:"target,omitempty"`
}

type WSErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
