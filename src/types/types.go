package types

// Inbound event names accepted from clients. Connect and disconnect are not
// wire events: they are the WebSocket upgrade and the socket close.
const (
	EventJoin          = "join"
	EventSendMessage   = "send_message"
	EventTyping        = "typing"
	EventDeleteMessage = "delete_message"
)

// Outbound event names pushed to clients.
const (
	EventConnectionResponse = "connection_response"
	EventJoinResponse       = "join_response"
	EventUserJoined         = "user_joined"
	EventUserLeft           = "user_left"
	EventNewMessage         = "new_message"
	EventUserTyping         = "user_typing"
	EventMessageDeleted     = "message_deleted"
	EventError              = "error"
)

// Inbound is the envelope read from a client connection.
type Inbound struct {
	Event string  `json:"event"`
	Data  Payload `json:"data"`
}

// Payload carries the optional fields of inbound events. Absent fields are
// default-filled by the dispatcher, never rejected.
type Payload struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	IsTyping  bool   `json:"isTyping"`
	MessageID string `json:"message_id"`
}

// Outbound is a single event pushed to a client connection.
type Outbound struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// DefaultUsername substitutes the fallback display name for an absent or
// empty username.
func DefaultUsername(name string) string {
	if name == "" {
		return "Anonymous"
	}
	return name
}

// ConnectionResponse acknowledges a freshly accepted connection.
func ConnectionResponse(sid string) Outbound {
	return Outbound{Event: EventConnectionResponse, Data: map[string]any{
		"status": "connected",
		"sid":    sid,
	}}
}

// JoinResponse acknowledges a join to the joining connection.
func JoinResponse(username string, activeUsers []string) Outbound {
	return Outbound{Event: EventJoinResponse, Data: map[string]any{
		"status":       "joined",
		"username":     username,
		"active_users": activeUsers,
	}}
}

// UserJoined announces a join to every connection.
func UserJoined(username string, activeUsers []string) Outbound {
	return Outbound{Event: EventUserJoined, Data: map[string]any{
		"username":     username,
		"active_users": activeUsers,
	}}
}

// UserLeft announces a departure to the remaining connections.
func UserLeft(username string, activeUsers []string) Outbound {
	return Outbound{Event: EventUserLeft, Data: map[string]any{
		"username":     username,
		"active_users": activeUsers,
	}}
}

// NewMessage carries a persisted chat message, including the id and
// timestamp the store assigned.
func NewMessage(id, username, text, timestamp string) Outbound {
	return Outbound{Event: EventNewMessage, Data: map[string]any{
		"id":        id,
		"username":  username,
		"message":   text,
		"timestamp": timestamp,
	}}
}

// UserTyping carries a typing indicator to everyone but the originator.
func UserTyping(username string, isTyping bool) Outbound {
	return Outbound{Event: EventUserTyping, Data: map[string]any{
		"username": username,
		"isTyping": isTyping,
	}}
}

// MessageDeleted announces a deletion to every connection.
func MessageDeleted(messageID string) Outbound {
	return Outbound{Event: EventMessageDeleted, Data: map[string]any{
		"message_id": messageID,
	}}
}

// ErrorEvent reports a failure back to the originating connection only.
func ErrorEvent(message string) Outbound {
	return Outbound{Event: EventError, Data: map[string]any{
		"message": message,
	}}
}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	Close() error
}
