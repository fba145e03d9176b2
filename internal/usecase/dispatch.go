package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stanionascu/lemmy/internal/domain"
)

// Dispatcher fans an activity out to its recipient inboxes. Delivery
// failures are collected, not rolled back; a failed inbox never blocks
// the rest of the fan-out.
type Dispatcher struct {
	deliverer Deliverer
	followers FollowerStore
	builder   *Builder
	log       *slog.Logger
}

func NewDispatcher(deliverer Deliverer, followers FollowerStore, builder *Builder, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		deliverer: deliverer,
		followers: followers,
		builder:   builder,
		log:       log,
	}
}

// DeliverAll posts activity to every inbox, deduplicated, and joins
// the per-inbox failures.
func (d *Dispatcher) DeliverAll(ctx context.Context, activity domain.Activity, inboxes []string) error {
	ctx, span := tracer.Start(ctx, "Dispatcher.DeliverAll")
	defer span.End()

	seen := make(map[string]struct{}, len(inboxes))
	var errs []error
	for _, inbox := range inboxes {
		if inbox == "" {
			continue
		}
		if _, ok := seen[inbox]; ok {
			continue
		}
		seen[inbox] = struct{}{}
		if err := d.deliverer.Deliver(ctx, inbox, activity); err != nil {
			d.log.Warn("delivery failed",
				slog.String("module", "dispatch"),
				slog.String("inbox", inbox),
				slog.String("activity", activity.ID),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AnnounceToFollowers relays an activity from a local community to the
// inboxes of its followers, wrapped in an Announce.
func (d *Dispatcher) AnnounceToFollowers(ctx context.Context, community *domain.Community, activity domain.Activity) error {
	inboxes, err := d.followers.CommunityFollowerInboxes(ctx, community.ID)
	if err != nil {
		return err
	}
	announce := d.builder.BuildAnnounce(community, activity)
	return d.DeliverAll(ctx, announce, inboxes)
}

// DispatchInCommunity delivers a community-scoped activity. Extra
// inboxes go first, then the community leg (Announce relay for local
// communities, the community's shared inbox for remote ones), then the
// acting actor's own followers unless the activity is a mod action.
func (d *Dispatcher) DispatchInCommunity(ctx context.Context, activity domain.Activity, actor domain.Actor, community *domain.Community, extraInboxes []string) error {
	ctx, span := tracer.Start(ctx, "Dispatcher.DispatchInCommunity")
	defer span.End()

	var errs []error
	if len(extraInboxes) > 0 {
		errs = append(errs, d.DeliverAll(ctx, activity, extraInboxes))
	}

	if community.Local {
		errs = append(errs, d.AnnounceToFollowers(ctx, community, activity))
	} else {
		inbox := domain.Actor{Kind: domain.ActorCommunity, Community: community}.SharedInboxOrInbox()
		errs = append(errs, d.DeliverAll(ctx, activity, []string{inbox}))
	}

	if !activity.ModAction() {
		inboxes, err := d.followers.PersonFollowerInboxes(ctx, actor.ID())
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, d.DeliverAll(ctx, activity, inboxes))
		}
	}

	return errors.Join(errs...)
}
