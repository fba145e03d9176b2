package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/stanionascu/lemmy/client"
	"github.com/stanionascu/lemmy/internal/domain"
)

var tracer = otel.Tracer("gateway")

// ActorGateway dereferences remote actor identity URLs into domain
// actors using the caching document client.
type ActorGateway struct {
	client *client.Client
	config domain.Config
}

func NewActorGateway(cl *client.Client, config domain.Config) *ActorGateway {
	return &ActorGateway{client: cl, config: config}
}

func (g *ActorGateway) Fetch(ctx context.Context, id string) (domain.Actor, error) {
	ctx, span := tracer.Start(ctx, "Gateway.Actor.Fetch")
	defer span.End()

	doc, err := g.client.GetActor(ctx, id)
	if err != nil {
		span.RecordError(err)
		return domain.Actor{}, errors.Wrap(err, "actor dereference failed")
	}

	local := g.config.IsLocal(doc.ID)
	now := time.Now().UTC()

	switch doc.Type {
	case "Person", "Service":
		return domain.Actor{
			Kind: domain.ActorPerson,
			Person: &domain.Person{
				ID:          doc.ID,
				Name:        doc.PreferredUsername,
				Local:       local,
				Inbox:       doc.Inbox,
				SharedInbox: doc.Endpoints.SharedInbox,
				FetchedAt:   now,
			},
		}, nil
	case "Group":
		return domain.Actor{
			Kind: domain.ActorCommunity,
			Community: &domain.Community{
				ID:            doc.ID,
				Name:          doc.PreferredUsername,
				Local:         local,
				Inbox:         doc.Inbox,
				SharedInbox:   doc.Endpoints.SharedInbox,
				FollowersURL:  doc.Followers,
				ModeratorsURL: doc.ID + "/moderators",
				FeaturedURL:   doc.ID + "/featured",
				FetchedAt:     now,
			},
		}, nil
	case "Application":
		return domain.Actor{
			Kind: domain.ActorInstance,
			Instance: &domain.Instance{
				ID:          doc.ID,
				Local:       local,
				Inbox:       doc.Inbox,
				SharedInbox: doc.Endpoints.SharedInbox,
				FetchedAt:   now,
			},
		}, nil
	default:
		g.client.Invalidate(id)
		err := fmt.Errorf("unknown actor type %q for %s", doc.Type, id)
		span.RecordError(err)
		return domain.Actor{}, err
	}
}

// Invalidate drops the cached document for an actor.
func (g *ActorGateway) Invalidate(id string) {
	g.client.Invalidate(id)
}
