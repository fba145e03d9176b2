package usecase

import (
	"context"

	"github.com/stanionascu/lemmy/internal/domain"
)

// LocalActorStore looks local actors up by preferred username.
type LocalActorStore interface {
	LocalPersonByName(ctx context.Context, name string) (*domain.Person, error)
	LocalCommunityByName(ctx context.Context, name string) (*domain.Community, error)
	CountCommunityFollowers(ctx context.Context, communityID string) (int64, error)
}

// Documents serves the dereferenceable documents of local actors.
type Documents struct {
	store LocalActorStore
}

func NewDocuments(store LocalActorStore) *Documents {
	return &Documents{store: store}
}

func (d *Documents) Person(ctx context.Context, name string) (*domain.Person, error) {
	return d.store.LocalPersonByName(ctx, name)
}

func (d *Documents) Community(ctx context.Context, name string) (*domain.Community, error) {
	return d.store.LocalCommunityByName(ctx, name)
}

// CommunityFollowers returns the community and the size of its
// followers collection. Member identities are not exposed.
func (d *Documents) CommunityFollowers(ctx context.Context, name string) (*domain.Community, int64, error) {
	community, err := d.store.LocalCommunityByName(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	count, err := d.store.CountCommunityFollowers(ctx, community.ID)
	if err != nil {
		return nil, 0, err
	}
	return community, count, nil
}
