// Package chat implements the AI chat vertical: sending messages,
// session management, and per-session history.
package chat

import (
	"context"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/failure"
	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/transport"
	"github.com/starford/ansuz/internal/wire"
)

const basePath = "/api/v1/ai/chat"

const (
	errSend     = "failed to send message"
	errHistory  = "failed to load chat history"
	errSession  = "failed to create chat session"
	errSessions = "failed to list chat sessions"
)

// messageDTO mirrors one chat message on the wire.
type messageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp wire.Time `json:"timestamp"`
}

func (d messageDTO) check() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Role, validation.Required),
	)
}

type sendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type sendResponseDTO struct {
	Message   messageDTO `json:"message"`
	SessionID string     `json:"session_id"`
}

type historyDTO struct {
	Messages []messageDTO `json:"messages"`
}

type sessionDTO struct {
	ID        string    `json:"session_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt wire.Time `json:"created_at"`
}

func (d sessionDTO) check() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
	)
}

type sessionsDTO struct {
	Sessions []sessionDTO `json:"sessions"`
}

// Message is the domain entity for one chat message.
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Reply is the result of sending a message.
type Reply struct {
	Message   Message
	SessionID string
}

// Session identifies one chat conversation.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

func messageToEntity(d messageDTO) Message {
	return Message{Role: d.Role, Content: d.Content, Timestamp: d.Timestamp.Time}
}

func sessionToEntity(d sessionDTO) Session {
	return Session{ID: d.ID, Title: d.Title, CreatedAt: d.CreatedAt.Time}
}

// dataSource issues the raw HTTP calls for the chat vertical.
type dataSource struct {
	c *transport.Client
}

func (ds *dataSource) send(ctx context.Context, req sendRequest) (sendResponseDTO, error) {
	var out sendResponseDTO
	err := ds.c.Post(ctx, basePath, req, &out)
	return out, err
}

func (ds *dataSource) history(ctx context.Context, sessionID string) (historyDTO, error) {
	q := url.Values{"session_id": {sessionID}}
	var out historyDTO
	err := ds.c.Get(ctx, basePath+"/history", q, &out)
	return out, err
}

func (ds *dataSource) newSession(ctx context.Context) (sessionDTO, error) {
	var out sessionDTO
	err := ds.c.Post(ctx, basePath+"/session", nil, &out)
	return out, err
}

func (ds *dataSource) sessions(ctx context.Context) (sessionsDTO, error) {
	var out sessionsDTO
	err := ds.c.Get(ctx, basePath+"/sessions", nil, &out)
	return out, err
}

// Repository exposes entity-typed chat operations.
type Repository struct {
	ds *dataSource
}

// NewRepository creates a chat repository over a transport client.
func NewRepository(c *transport.Client) *Repository {
	return &Repository{ds: &dataSource{c: c}}
}

// Send submits a user message, optionally within an existing session,
// and returns the assistant's reply. Empty messages are rejected
// locally before any network call.
func (r *Repository) Send(ctx context.Context, sessionID, message string) (Reply, error) {
	if message == "" {
		return Reply{}, failure.Validationf("message must not be empty")
	}
	return remote.Fetch(ctx, errSend,
		func(ctx context.Context) (sendResponseDTO, error) {
			return r.ds.send(ctx, sendRequest{Message: message, SessionID: sessionID})
		},
		func(d sendResponseDTO) error { return d.Message.check() },
		func(d sendResponseDTO) Reply {
			return Reply{Message: messageToEntity(d.Message), SessionID: d.SessionID}
		})
}

// History returns all messages of a session in order.
func (r *Repository) History(ctx context.Context, sessionID string) ([]Message, error) {
	if sessionID == "" {
		return nil, failure.Validationf("session id must not be empty")
	}
	return remote.FetchList(ctx, errHistory,
		func(ctx context.Context) ([]messageDTO, error) {
			res, err := r.ds.history(ctx, sessionID)
			return res.Messages, err
		},
		messageDTO.check, messageToEntity)
}

// NewSession creates a fresh chat session.
func (r *Repository) NewSession(ctx context.Context) (Session, error) {
	return remote.Fetch(ctx, errSession,
		func(ctx context.Context) (sessionDTO, error) { return r.ds.newSession(ctx) },
		sessionDTO.check, sessionToEntity)
}

// Sessions lists all known chat sessions.
func (r *Repository) Sessions(ctx context.Context) ([]Session, error) {
	return remote.FetchList(ctx, errSessions,
		func(ctx context.Context) ([]sessionDTO, error) {
			res, err := r.ds.sessions(ctx)
			return res.Sessions, err
		},
		sessionDTO.check, sessionToEntity)
}
