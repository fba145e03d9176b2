package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/stanionascu/lemmy/internal/domain"
)

// Federation is the outbound facade. Each method builds one activity
// and hands it to the dispatcher; local state changes stay with the
// caller.
type Federation struct {
	builder    *Builder
	dispatcher *Dispatcher
	followers  FollowerStore
	log        *slog.Logger
}

func NewFederation(builder *Builder, dispatcher *Dispatcher, followers FollowerStore, log *slog.Logger) *Federation {
	return &Federation{
		builder:    builder,
		dispatcher: dispatcher,
		followers:  followers,
		log:        log,
	}
}

// SendCommunityBan federates a ban or unban scoped to one community.
// The banned person's own inbox is always included so their home
// instance learns about it even without following the community.
func (f *Federation) SendCommunityBan(ctx context.Context, moderator, target domain.Actor, community *domain.Community, banned, removeData bool, reason *string, expires *time.Time) error {
	ctx, span := tracer.Start(ctx, "Federation.SendCommunityBan")
	defer span.End()

	var act domain.Activity
	if banned {
		act = f.builder.BuildBan(moderator, target, community, removeData, reason, expires)
	} else {
		act = f.builder.BuildUndoBan(moderator, target, community, reason)
	}
	extra := []string{target.SharedInboxOrInbox()}
	return f.dispatcher.DispatchInCommunity(ctx, act, moderator, community, extra)
}

// SendSiteBan federates an instance-wide ban or unban to every known
// remote instance plus the banned person's home inbox.
func (f *Federation) SendSiteBan(ctx context.Context, moderator, target domain.Actor, banned, removeData bool, reason *string, expires *time.Time) error {
	ctx, span := tracer.Start(ctx, "Federation.SendSiteBan")
	defer span.End()

	var act domain.Activity
	if banned {
		act = f.builder.BuildBan(moderator, target, nil, removeData, reason, expires)
	} else {
		act = f.builder.BuildUndoBan(moderator, target, nil, reason)
	}
	inboxes, err := f.followers.RemoteInstanceInboxes(ctx)
	if err != nil {
		return err
	}
	inboxes = append(inboxes, target.SharedInboxOrInbox())
	return f.dispatcher.DeliverAll(ctx, act, inboxes)
}

// SendDeleteInCommunity federates a deletion or restoration of a
// community-owned object. A non-nil reason marks it as a moderator
// removal.
func (f *Federation) SendDeleteInCommunity(ctx context.Context, actor domain.Actor, community *domain.Community, objectID string, deleted bool, reason *string) error {
	ctx, span := tracer.Start(ctx, "Federation.SendDeleteInCommunity")
	defer span.End()

	act := f.builder.BuildDelete(actor, objectID, community, reason)
	if !deleted {
		act = f.builder.BuildUndoDelete(actor, act)
	}
	return f.dispatcher.DispatchInCommunity(ctx, act, actor, community, nil)
}

// SendPrivateMessageDelete federates deletion of a private message to
// its recipient only.
func (f *Federation) SendPrivateMessageDelete(ctx context.Context, actor, recipient domain.Actor, messageID string, deleted bool) error {
	ctx, span := tracer.Start(ctx, "Federation.SendPrivateMessageDelete")
	defer span.End()

	act := f.builder.BuildPrivateDelete(actor, messageID, recipient)
	if !deleted {
		act = f.builder.BuildUndoDelete(actor, act)
	}
	return f.dispatcher.DeliverAll(ctx, act, []string{recipient.SharedInboxOrInbox()})
}

// SendModeratorChange federates an appointment to or removal from the
// community's moderator collection. The affected person's inbox is
// included directly.
func (f *Federation) SendModeratorChange(ctx context.Context, actor, person domain.Actor, community *domain.Community, added bool) error {
	ctx, span := tracer.Start(ctx, "Federation.SendModeratorChange")
	defer span.End()

	var act domain.Activity
	if added {
		act = f.builder.BuildCollectionAdd(actor, community, person.ID(), domain.CollectionModerators)
	} else {
		act = f.builder.BuildCollectionRemove(actor, community, person.ID(), domain.CollectionModerators)
	}
	extra := []string{person.SharedInboxOrInbox()}
	return f.dispatcher.DispatchInCommunity(ctx, act, actor, community, extra)
}

// SendFeaturePost federates pinning or unpinning of a post in its
// community's featured collection.
func (f *Federation) SendFeaturePost(ctx context.Context, actor domain.Actor, community *domain.Community, postID string, featured bool) error {
	ctx, span := tracer.Start(ctx, "Federation.SendFeaturePost")
	defer span.End()

	var act domain.Activity
	if featured {
		act = f.builder.BuildCollectionAdd(actor, community, postID, domain.CollectionFeatured)
	} else {
		act = f.builder.BuildCollectionRemove(actor, community, postID, domain.CollectionFeatured)
	}
	return f.dispatcher.DispatchInCommunity(ctx, act, actor, community, nil)
}
