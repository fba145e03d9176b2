package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stanionascu/lemmy/internal/domain"
)

// Applier executes verified activities against local state. Every
// branch is idempotent: re-applying an activity whose effect already
// holds changes nothing and writes no mod log entry.
type Applier struct {
	directory  *Directory
	objects    *ObjectResolver
	store      ObjectStore
	moderation ModerationStore
	dispatcher *Dispatcher
	notifier   Notifier
	config     domain.Config
	log        *slog.Logger
}

func NewApplier(directory *Directory, objects *ObjectResolver, store ObjectStore, moderation ModerationStore, dispatcher *Dispatcher, notifier Notifier, config domain.Config, log *slog.Logger) *Applier {
	return &Applier{
		directory:  directory,
		objects:    objects,
		store:      store,
		moderation: moderation,
		dispatcher: dispatcher,
		notifier:   notifier,
		config:     config,
		log:        log,
	}
}

// Apply executes one verified activity.
func (a *Applier) Apply(ctx context.Context, act domain.Activity, budget int) error {
	ctx, span := tracer.Start(ctx, "Applier.Apply")
	defer span.End()

	switch act.Kind {
	case domain.KindBlock:
		return a.applyBan(ctx, act, true, budget)
	case domain.KindDelete:
		return a.applyDelete(ctx, act, true, budget)
	case domain.KindAdd:
		return a.applyCollection(ctx, act, true, budget)
	case domain.KindRemove:
		return a.applyCollection(ctx, act, false, budget)
	case domain.KindUndo:
		return a.applyUndo(ctx, act, budget)
	case domain.KindAnnounce:
		inner := act.Object.Embedded
		if inner == nil {
			return fmt.Errorf("announce activity %s carries no embedded object", act.ID)
		}
		return a.Apply(ctx, *inner, budget-1)
	default:
		return fmt.Errorf("unsupported activity type %q", act.Kind)
	}
}

func (a *Applier) applyUndo(ctx context.Context, act domain.Activity, budget int) error {
	inner := act.Object.Embedded
	if inner == nil {
		return fmt.Errorf("undo activity %s carries no embedded object", act.ID)
	}
	switch inner.Kind {
	case domain.KindBlock:
		return a.applyBan(ctx, *inner, false, budget-1)
	case domain.KindDelete:
		return a.applyDelete(ctx, *inner, false, budget-1)
	default:
		return fmt.Errorf("cannot undo activity type %q", inner.Kind)
	}
}

func (a *Applier) applyBan(ctx context.Context, act domain.Activity, banned bool, budget int) error {
	target, err := a.directory.ResolvePerson(ctx, act.Object.URL, budget)
	if err != nil {
		return err
	}
	scope, err := a.directory.Resolve(ctx, act.Target, budget-1)
	if err != nil {
		return err
	}
	removeData := act.RemoveData != nil && *act.RemoveData

	switch scope.Kind {
	case domain.ActorInstance:
		return a.applySiteBan(ctx, act, target, banned, removeData)
	case domain.ActorCommunity:
		return a.applyCommunityBan(ctx, act, target, scope.Community, banned, removeData)
	default:
		return domain.NotFoundError{Resource: "ban scope " + act.Target}
	}
}

func (a *Applier) applySiteBan(ctx context.Context, act domain.Activity, target *domain.Person, banned, removeData bool) error {
	if target.Banned == banned {
		return nil
	}
	if err := a.moderation.SetPersonBanned(ctx, target.ID, banned, act.Expires); err != nil {
		return err
	}
	if banned && removeData {
		// Cascade is best effort, a failure does not unwind the ban.
		if err := a.moderation.RemovePersonContent(ctx, target.ID, nil); err != nil {
			a.log.Warn("content cascade failed",
				slog.String("module", "apply"),
				slog.String("person", target.ID),
			)
		}
	}
	entry := domain.ModLogEntry{
		Action:      domain.ModLogBan,
		ModeratorID: act.Actor,
		TargetID:    target.ID,
		Reason:      act.Summary,
		Expires:     act.Expires,
		CreatedAt:   time.Now(),
	}
	if !banned {
		entry.Action = domain.ModLogUnban
	}
	if err := a.moderation.CreateModLog(ctx, entry); err != nil {
		return err
	}
	return a.notify(ctx, "person_updated", target.ID)
}

func (a *Applier) applyCommunityBan(ctx context.Context, act domain.Activity, target *domain.Person, community *domain.Community, banned, removeData bool) error {
	already, err := a.moderation.IsBannedFromCommunity(ctx, community.ID, target.ID)
	if err != nil {
		return err
	}
	if already == banned {
		return nil
	}

	if banned {
		if err := a.moderation.UpsertCommunityBan(ctx, community.ID, target.ID, act.Expires); err != nil {
			return err
		}
		// A banned person no longer follows the community. Best effort.
		if err := a.moderation.Unfollow(ctx, community.ID, target.ID); err != nil {
			a.log.Warn("unfollow failed",
				slog.String("module", "apply"),
				slog.String("person", target.ID),
				slog.String("community", community.ID),
			)
		}
		if removeData {
			if err := a.moderation.RemovePersonContent(ctx, target.ID, &community.ID); err != nil {
				a.log.Warn("content cascade failed",
					slog.String("module", "apply"),
					slog.String("person", target.ID),
					slog.String("community", community.ID),
				)
			}
		}
	} else {
		if err := a.moderation.DeleteCommunityBan(ctx, community.ID, target.ID); err != nil {
			return err
		}
	}

	entry := domain.ModLogEntry{
		Action:      domain.ModLogBan,
		ModeratorID: act.Actor,
		TargetID:    target.ID,
		CommunityID: &community.ID,
		Reason:      act.Summary,
		Expires:     act.Expires,
		CreatedAt:   time.Now(),
	}
	if !banned {
		entry.Action = domain.ModLogUnban
	}
	if err := a.moderation.CreateModLog(ctx, entry); err != nil {
		return err
	}
	return a.notify(ctx, "person_updated", target.ID)
}

func (a *Applier) applyCollection(ctx context.Context, act domain.Activity, add bool, budget int) error {
	community, collection, err := a.store.CommunityByCollectionURL(ctx, act.Target)
	if err != nil {
		return err
	}
	if collection == domain.CollectionFeatured {
		return a.applyFeatured(ctx, act, add)
	}
	return a.applyModerators(ctx, act, community, add, budget)
}

func (a *Applier) applyModerators(ctx context.Context, act domain.Activity, community *domain.Community, add bool, budget int) error {
	person, err := a.directory.ResolvePerson(ctx, act.Object.URL, budget-1)
	if err != nil {
		return err
	}

	if add {
		// The roster may already hold the person when both sides of a
		// federation pair announce the same appointment. Either path
		// through the conflict is a success without a second log row.
		already, err := a.moderation.IsModerator(ctx, community.ID, person.ID)
		if err != nil {
			return err
		}
		if already {
			return nil
		}
		added, err := a.moderation.AddModerator(ctx, community.ID, person.ID)
		if err != nil {
			return err
		}
		if !added {
			return nil
		}
	} else {
		removed, err := a.moderation.RemoveModerator(ctx, community.ID, person.ID)
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}
	}

	entry := domain.ModLogEntry{
		Action:      domain.ModLogAddModerator,
		ModeratorID: act.Actor,
		TargetID:    person.ID,
		CommunityID: &community.ID,
		CreatedAt:   time.Now(),
	}
	if !add {
		entry.Action = domain.ModLogRemoveMod
	}
	if err := a.moderation.CreateModLog(ctx, entry); err != nil {
		return err
	}
	return a.notify(ctx, "community_updated", community.ID)
}

func (a *Applier) applyFeatured(ctx context.Context, act domain.Activity, featured bool) error {
	post, err := a.store.PostByID(ctx, act.Object.URL)
	if err != nil {
		return err
	}
	if post.FeaturedCommunity == featured {
		return nil
	}
	if err := a.store.SetPostFeatured(ctx, post.ID, featured); err != nil {
		return err
	}
	return a.notify(ctx, "post_updated", post.ID)
}

func (a *Applier) applyDelete(ctx context.Context, act domain.Activity, deleted bool, budget int) error {
	obj, err := a.objects.ResolveByID(ctx, act.Object.URL)
	if err != nil {
		return err
	}

	// A reason marks a moderator removal; without one this is the
	// author retracting their own object.
	removal := act.Summary != nil
	current := obj.Deleted()
	if removal {
		current = obj.Removed()
	}
	if current == deleted {
		return nil
	}

	if obj.Kind == domain.ObjectCommunity && obj.Community.Local {
		// A local community relays the deletion to its own followers
		// before the flag flips.
		if err := a.dispatcher.AnnounceToFollowers(ctx, obj.Community, act); err != nil {
			a.log.Warn("community delete relay failed",
				slog.String("module", "apply"),
				slog.String("community", obj.Community.ID),
			)
		}
	}

	if err := a.setDeletionFlag(ctx, obj, removal, deleted); err != nil {
		return err
	}

	if removal {
		entry := domain.ModLogEntry{
			Action:      domain.ModLogRemoveContent,
			ModeratorID: act.Actor,
			TargetID:    obj.ID(),
			Reason:      act.Summary,
			CreatedAt:   time.Now(),
		}
		if communityID, ok := obj.CommunityID(); ok && obj.Kind != domain.ObjectCommunity {
			entry.CommunityID = &communityID
		}
		if !deleted {
			entry.Action = domain.ModLogRestore
		}
		if err := a.moderation.CreateModLog(ctx, entry); err != nil {
			return err
		}
	}

	return a.notify(ctx, string(obj.Kind)+"_updated", obj.ID())
}

func (a *Applier) setDeletionFlag(ctx context.Context, obj domain.DeletableObject, removal, deleted bool) error {
	switch obj.Kind {
	case domain.ObjectCommunity:
		if removal {
			return a.store.SetCommunityRemoved(ctx, obj.ID(), deleted)
		}
		return a.store.SetCommunityDeleted(ctx, obj.ID(), deleted)
	case domain.ObjectPost:
		if removal {
			return a.store.SetPostRemoved(ctx, obj.ID(), deleted)
		}
		return a.store.SetPostDeleted(ctx, obj.ID(), deleted)
	case domain.ObjectComment:
		if removal {
			return a.store.SetCommentRemoved(ctx, obj.ID(), deleted)
		}
		return a.store.SetCommentDeleted(ctx, obj.ID(), deleted)
	case domain.ObjectPrivateMessage:
		return a.store.SetPrivateMessageDeleted(ctx, obj.ID(), deleted)
	}
	return fmt.Errorf("unknown object kind %q", obj.Kind)
}

func (a *Applier) notify(ctx context.Context, eventType, objectID string) error {
	err := a.notifier.Publish(ctx, domain.Event{Type: eventType, ObjectID: objectID})
	if err != nil {
		a.log.Warn("notify failed",
			slog.String("module", "apply"),
			slog.String("event", eventType),
		)
	}
	return nil
}
