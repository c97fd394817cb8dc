package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a recommendation conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session holds the mutable per-conversation state for the recommendation
// chat. Ownership is exclusive to the session identifier; sessions are
// in-memory only and do not survive a restart.
type Session struct {
	ID             string    `json:"id"`
	Messages       []Message `json:"messages"`
	ExchangeCount  int       `json:"exchange_count"`
	HasRecommended bool      `json:"has_recommended"`
	CreatedAt      time.Time `json:"created_at"`
}

// Append adds a turn to the session history.
func (s *Session) Append(role Role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// Recent returns the most recent n messages, oldest first.
func (s *Session) Recent(n int) []Message {
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// DefaultSessionID is used for anonymous or unscoped callers.
const DefaultSessionID = "default"

// ChatRequest is the request for one conversational turn.
type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"sessionId"`
}

// ChatResponse is the response for one conversational turn.
type ChatResponse struct {
	Reply              string               `json:"reply"`
	HasRecommendations bool                 `json:"hasRecommendations"`
	Recommendations    []BookRecommendation `json:"recommendations"`
	SessionID          string               `json:"sessionId"`
	ExchangeCount      int                  `json:"exchangeCount"`
}
