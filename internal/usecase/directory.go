package usecase

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/stanionascu/lemmy/internal/domain"
)

var tracer = otel.Tracer("usecase")

// DefaultDepthBudget bounds how many nested dereferences a single
// inbound activity may trigger.
const DefaultDepthBudget = 10

const actorMaxAge = 24 * time.Hour

// Directory resolves actor identifiers to actor records, cache first,
// network second. Every resolution spends one unit of the caller's
// depth budget.
type Directory struct {
	store   ActorStore
	fetcher ActorFetcher
}

func NewDirectory(store ActorStore, fetcher ActorFetcher) *Directory {
	return &Directory{store: store, fetcher: fetcher}
}

// Resolve returns the actor behind id. A cached entry older than
// actorMaxAge is refetched, but a refetch failure falls back to the
// stale entry rather than failing the caller.
func (d *Directory) Resolve(ctx context.Context, id string, budget int) (domain.Actor, error) {
	ctx, span := tracer.Start(ctx, "Directory.Resolve")
	defer span.End()

	if budget <= 0 {
		return domain.Actor{}, domain.RecursionExceededError{Identity: id}
	}

	cached, err := d.store.GetByID(ctx, id)
	if err == nil {
		if cached.Local() || time.Since(cached.FetchedAt()) < actorMaxAge {
			return cached, nil
		}
		refreshed, rerr := d.refresh(ctx, id)
		if rerr != nil {
			return cached, nil
		}
		return refreshed, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Actor{}, err
	}

	return d.refresh(ctx, id)
}

// ResolvePerson is Resolve restricted to person actors.
func (d *Directory) ResolvePerson(ctx context.Context, id string, budget int) (*domain.Person, error) {
	actor, err := d.Resolve(ctx, id, budget)
	if err != nil {
		return nil, err
	}
	if actor.Kind != domain.ActorPerson {
		// The cached document dereferenced to another kind. Drop it so
		// the next refresh fetches a fresh copy.
		d.fetcher.Invalidate(id)
		return nil, domain.NotFoundError{Resource: "person " + id}
	}
	return actor.Person, nil
}

// ResolveCommunity is Resolve restricted to community actors.
func (d *Directory) ResolveCommunity(ctx context.Context, id string, budget int) (*domain.Community, error) {
	actor, err := d.Resolve(ctx, id, budget)
	if err != nil {
		return nil, err
	}
	if actor.Kind != domain.ActorCommunity {
		d.fetcher.Invalidate(id)
		return nil, domain.NotFoundError{Resource: "community " + id}
	}
	return actor.Community, nil
}

func (d *Directory) refresh(ctx context.Context, id string) (domain.Actor, error) {
	actor, err := d.fetcher.Fetch(ctx, id)
	if err != nil {
		return domain.Actor{}, err
	}
	if err := d.store.Upsert(ctx, actor); err != nil {
		return domain.Actor{}, err
	}
	// The remote document knows nothing about local moderation state.
	// The store keeps banned, expiry and admin flags across upserts, so
	// read the merged row back instead of returning the fetched value.
	return d.store.GetByID(ctx, id)
}
