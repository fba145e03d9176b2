package rest

import (
	"context"
	"errors"
	"net/http"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/stanionascu/lemmy/internal/domain"
	"github.com/stanionascu/lemmy/internal/present/rest/presenter"
)

// InboundProcessor runs an inbox delivery through verification and
// apply.
type InboundProcessor interface {
	Receive(ctx context.Context, act domain.Activity) error
}

// DocumentProvider serves local actor documents.
type DocumentProvider interface {
	Person(ctx context.Context, name string) (*domain.Person, error)
	Community(ctx context.Context, name string) (*domain.Community, error)
	CommunityFollowers(ctx context.Context, name string) (*domain.Community, int64, error)
}

// EventStreamer forwards local update events until ctx is cancelled.
type EventStreamer interface {
	Stream(ctx context.Context, output chan<- domain.Event) error
}

type Handler struct {
	config    domain.Config
	processor InboundProcessor
	documents DocumentProvider
	events    EventStreamer
}

func NewHandler(
	config domain.Config,
	processor InboundProcessor,
	documents DocumentProvider,
	events EventStreamer,
) *Handler {
	return &Handler{
		config:    config,
		processor: processor,
		documents: documents,
		events:    events,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, inboxMiddleware ...echo.MiddlewareFunc) {
	e.POST("/inbox", h.handleInbox, inboxMiddleware...)
	e.POST("/u/:name/inbox", h.handleInbox, inboxMiddleware...)
	e.POST("/c/:name/inbox", h.handleInbox, inboxMiddleware...)
	e.GET("/u/:name", h.handlePerson)
	e.GET("/c/:name", h.handleCommunity)
	e.GET("/c/:name/followers", h.handleCommunityFollowers)
	e.GET("/.well-known/nodeinfo", h.handleWellKnownNodeInfo)
	e.GET("/nodeinfo/2.0", h.handleNodeInfo)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleInbox(c echo.Context) error {
	ctx := c.Request().Context()

	var act domain.Activity
	if err := c.Bind(&act); err != nil {
		return presenter.BadRequest(c, err)
	}
	if act.ID == "" || act.Actor == "" {
		return presenter.BadRequestMessage(c, "activity id and actor are required")
	}

	err := h.processor.Receive(ctx, act)
	if err != nil {
		if errors.Is(err, domain.VerificationError{}) || errors.Is(err, domain.ErrRecursionExceeded) {
			return presenter.Forbidden(c, err)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}

	return presenter.Accepted(c)
}

const activityContext = "https://www.w3.org/ns/activitystreams"

type actorEndpoints struct {
	SharedInbox string `json:"sharedInbox,omitempty"`
}

type actorResponse struct {
	Context           string          `json:"@context"`
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	PreferredUsername string          `json:"preferredUsername"`
	Inbox             string          `json:"inbox"`
	Followers         string          `json:"followers,omitempty"`
	Moderators        string          `json:"attributedTo,omitempty"`
	Featured          string          `json:"featured,omitempty"`
	Endpoints         *actorEndpoints `json:"endpoints,omitempty"`
}

type collectionResponse struct {
	Context    string `json:"@context"`
	ID         string `json:"id"`
	Type       string `json:"type"`
	TotalItems int64  `json:"totalItems"`
}

func (h *Handler) handlePerson(c echo.Context) error {
	ctx := c.Request().Context()

	person, err := h.documents.Person(ctx, c.Param("name"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "person not found")
		}
		return presenter.InternalError(c, err)
	}

	doc := actorResponse{
		Context:           activityContext,
		ID:                person.ID,
		Type:              "Person",
		PreferredUsername: person.Name,
		Inbox:             person.Inbox,
	}
	if person.SharedInbox != "" {
		doc.Endpoints = &actorEndpoints{SharedInbox: person.SharedInbox}
	}
	return presenter.Activity(c, doc)
}

func (h *Handler) handleCommunity(c echo.Context) error {
	ctx := c.Request().Context()

	community, err := h.documents.Community(ctx, c.Param("name"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "community not found")
		}
		return presenter.InternalError(c, err)
	}
	if community.Deleted || community.Removed {
		return presenter.NotFound(c, "community not found")
	}

	doc := actorResponse{
		Context:           activityContext,
		ID:                community.ID,
		Type:              "Group",
		PreferredUsername: community.Name,
		Inbox:             community.Inbox,
		Followers:         community.FollowersURL,
		Moderators:        community.ModeratorsURL,
		Featured:          community.FeaturedURL,
	}
	if community.SharedInbox != "" {
		doc.Endpoints = &actorEndpoints{SharedInbox: community.SharedInbox}
	}
	return presenter.Activity(c, doc)
}

func (h *Handler) handleCommunityFollowers(c echo.Context) error {
	ctx := c.Request().Context()

	community, count, err := h.documents.CommunityFollowers(ctx, c.Param("name"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "community not found")
		}
		return presenter.InternalError(c, err)
	}

	// Follower identities are private, only the size is exposed.
	return presenter.Activity(c, collectionResponse{
		Context:    activityContext,
		ID:         community.FollowersURL,
		Type:       "OrderedCollection",
		TotalItems: count,
	})
}

func (h *Handler) handleWellKnownNodeInfo(c echo.Context) error {
	return presenter.OK(c, echo.Map{
		"links": []echo.Map{
			{
				"rel":  "http://nodeinfo.diaspora.software/ns/schema/2.0",
				"href": h.config.LocalOrigin() + "/nodeinfo/2.0",
			},
		},
	})
}

func (h *Handler) handleNodeInfo(c echo.Context) error {
	return presenter.OK(c, echo.Map{
		"version": "2.0",
		"software": echo.Map{
			"name":    "lemmyfed",
			"version": "0.1.0",
		},
		"protocols": []string{"activitypub"},
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan domain.Event)
	go func() {
		defer close(output)
		if err := h.events.Stream(ctx, output); err != nil && ctx.Err() == nil {
			slog.ErrorContext(
				ctx, "Event stream ended",
				slog.String("error", err.Error()),
				slog.String("module", "socket"),
			)
		}
	}()

	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			// The client only sends heartbeats; any read error ends
			// the session.
			if _, _, err := ws.ReadMessage(); err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.DebugContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event, ok := <-output:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
