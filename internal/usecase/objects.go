package usecase

import (
	"context"
	"errors"

	"github.com/stanionascu/lemmy/internal/domain"
)

// ObjectResolver maps an object identifier to the local deletable
// object it denotes. Resolution is local-storage only; unknown ids are
// not fetched over the network.
type ObjectResolver struct {
	store ObjectStore
}

func NewObjectResolver(store ObjectStore) *ObjectResolver {
	return &ObjectResolver{store: store}
}

// ResolveByID probes the object kinds in a fixed order and returns the
// first match.
func (r *ObjectResolver) ResolveByID(ctx context.Context, id string) (domain.DeletableObject, error) {
	ctx, span := tracer.Start(ctx, "ObjectResolver.ResolveByID")
	defer span.End()

	community, err := r.store.CommunityByID(ctx, id)
	if err == nil {
		return domain.DeletableObject{Kind: domain.ObjectCommunity, Community: community}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.DeletableObject{}, err
	}

	post, err := r.store.PostByID(ctx, id)
	if err == nil {
		return domain.DeletableObject{Kind: domain.ObjectPost, Post: post}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.DeletableObject{}, err
	}

	comment, err := r.store.CommentByID(ctx, id)
	if err == nil {
		return domain.DeletableObject{Kind: domain.ObjectComment, Comment: comment}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.DeletableObject{}, err
	}

	pm, err := r.store.PrivateMessageByID(ctx, id)
	if err == nil {
		return domain.DeletableObject{Kind: domain.ObjectPrivateMessage, PrivateMessage: pm}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.DeletableObject{}, err
	}

	return domain.DeletableObject{}, domain.NotFoundError{Resource: "object " + id}
}
