package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stanionascu/lemmy/internal/domain"
)

// Builder constructs outbound activities. Ids are minted once under the
// local origin and never reused.
type Builder struct {
	config domain.Config
}

func NewBuilder(config domain.Config) *Builder {
	return &Builder{config: config}
}

func (b *Builder) newID(kind domain.ActivityKind) string {
	return fmt.Sprintf("%s/activities/%s/%s", b.config.LocalOrigin(), strings.ToLower(string(kind)), uuid.NewString())
}

// cc lists the community actor and its followers collection so that
// relaying instances can address the right audience.
func communityCc(community *domain.Community) []string {
	if community == nil {
		return nil
	}
	cc := []string{community.ID}
	if community.FollowersURL != "" {
		cc = append(cc, community.FollowersURL)
	}
	return cc
}

// BuildBan builds a Block against target. A nil community means a
// site-wide ban issued by the local instance actor's authority.
func (b *Builder) BuildBan(moderator domain.Actor, target domain.Actor, community *domain.Community, removeData bool, reason *string, expires *time.Time) domain.Activity {
	act := domain.Activity{
		ID:         b.newID(domain.KindBlock),
		Kind:       domain.KindBlock,
		Actor:      moderator.ID(),
		Object:     domain.ObjectRef{URL: target.ID()},
		To:         []string{domain.PublicAudience},
		Summary:    reason,
		Expires:    expires,
		RemoveData: &removeData,
	}
	if community != nil {
		act.Target = community.ID
		act.Cc = communityCc(community)
		act.Audience = community.ID
	} else {
		act.Target = b.config.LocalOrigin()
	}
	return act
}

// BuildUndoBan wraps a freshly built Block in an Undo, lifting the ban.
func (b *Builder) BuildUndoBan(moderator domain.Actor, target domain.Actor, community *domain.Community, reason *string) domain.Activity {
	inner := b.BuildBan(moderator, target, community, false, reason, nil)
	return domain.Activity{
		ID:       b.newID(domain.KindUndo),
		Kind:     domain.KindUndo,
		Actor:    moderator.ID(),
		Object:   domain.ObjectRef{URL: inner.ID, Embedded: &inner},
		To:       inner.To,
		Cc:       inner.Cc,
		Audience: inner.Audience,
	}
}

// BuildDelete builds a Delete of objectID. A non-nil reason marks a
// moderator removal instead of an author deletion.
func (b *Builder) BuildDelete(actor domain.Actor, objectID string, community *domain.Community, reason *string) domain.Activity {
	act := domain.Activity{
		ID:      b.newID(domain.KindDelete),
		Kind:    domain.KindDelete,
		Actor:   actor.ID(),
		Object:  domain.ObjectRef{URL: objectID},
		To:      []string{domain.PublicAudience},
		Cc:      communityCc(community),
		Summary: reason,
	}
	if community != nil {
		act.Audience = community.ID
	}
	return act
}

// BuildPrivateDelete builds a Delete of a private message, addressed to
// the recipient only.
func (b *Builder) BuildPrivateDelete(actor domain.Actor, objectID string, recipient domain.Actor) domain.Activity {
	return domain.Activity{
		ID:     b.newID(domain.KindDelete),
		Kind:   domain.KindDelete,
		Actor:  actor.ID(),
		Object: domain.ObjectRef{URL: objectID},
		To:     []string{recipient.ID()},
	}
}

// BuildUndoDelete wraps a Delete in an Undo, restoring the object.
func (b *Builder) BuildUndoDelete(actor domain.Actor, inner domain.Activity) domain.Activity {
	return domain.Activity{
		ID:       b.newID(domain.KindUndo),
		Kind:     domain.KindUndo,
		Actor:    actor.ID(),
		Object:   domain.ObjectRef{URL: inner.ID, Embedded: &inner},
		To:       inner.To,
		Cc:       inner.Cc,
		Audience: inner.Audience,
	}
}

// BuildCollectionAdd builds an Add of objectID into one of the
// community's collections.
func (b *Builder) BuildCollectionAdd(actor domain.Actor, community *domain.Community, objectID string, collection domain.CollectionType) domain.Activity {
	return domain.Activity{
		ID:       b.newID(domain.KindAdd),
		Kind:     domain.KindAdd,
		Actor:    actor.ID(),
		Object:   domain.ObjectRef{URL: objectID},
		Target:   collectionURL(community, collection),
		To:       []string{domain.PublicAudience},
		Cc:       []string{community.ID},
		Audience: community.ID,
	}
}

// BuildCollectionRemove builds the Remove counterpart of
// BuildCollectionAdd.
func (b *Builder) BuildCollectionRemove(actor domain.Actor, community *domain.Community, objectID string, collection domain.CollectionType) domain.Activity {
	act := b.BuildCollectionAdd(actor, community, objectID, collection)
	act.ID = b.newID(domain.KindRemove)
	act.Kind = domain.KindRemove
	return act
}

// BuildAnnounce wraps an activity for relay from a local community to
// its followers.
func (b *Builder) BuildAnnounce(community *domain.Community, inner domain.Activity) domain.Activity {
	return domain.Activity{
		ID:     b.newID(domain.KindAnnounce),
		Kind:   domain.KindAnnounce,
		Actor:  community.ID,
		Object: domain.ObjectRef{URL: inner.ID, Embedded: &inner},
		To:     []string{domain.PublicAudience},
		Cc:     []string{community.FollowersURL},
	}
}

func collectionURL(community *domain.Community, collection domain.CollectionType) string {
	if collection == domain.CollectionFeatured {
		return community.FeaturedURL
	}
	return community.ModeratorsURL
}
