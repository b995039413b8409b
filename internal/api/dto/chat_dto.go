package dto

import "github.com/civicdesk/complaint-service/internal/chat"

// OpenChatSessionRequest payload.
type OpenChatSessionRequest struct {
	Language string `json:"language"`
}

// ChatMessageRequest is a free-text user turn.
type ChatMessageRequest struct {
	Text string `json:"text"`
}

// ChatActionRequest is a button press.
type ChatActionRequest struct {
	Action chat.Action `json:"action"`
}

// ChatMessageResponse is one transcript entry.
type ChatMessageResponse struct {
	Sender  chat.Sender   `json:"sender"`
	Text    string        `json:"text"`
	Actions []chat.Action `json:"actions,omitempty"`
}

// ChatSessionResponse is the session view returned after every turn.
type ChatSessionResponse struct {
	SessionID string                `json:"session_id"`
	State     chat.State            `json:"state"`
	Loading   bool                  `json:"loading"`
	Messages  []ChatMessageResponse `json:"messages"`
}

// FromChatSession maps a session to its response shape.
func FromChatSession(s *chat.Session) ChatSessionResponse {
	transcript := s.Transcript()
	messages := make([]ChatMessageResponse, 0, len(transcript))
	for _, msg := range transcript {
		messages = append(messages, ChatMessageResponse{
			Sender:  msg.Sender,
			Text:    msg.Text,
			Actions: msg.Actions,
		})
	}
	return ChatSessionResponse{
		SessionID: s.ID,
		State:     s.State(),
		Loading:   s.Loading(),
		Messages:  messages,
	}
}
