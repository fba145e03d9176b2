package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/stanionascu/lemmy/internal/domain"
)

// Verifier runs the admission pipeline for inbound activities. A
// rejection here is permanent; callers must not retry the delivery.
type Verifier struct {
	directory  *Directory
	objects    *ObjectResolver
	actors     ActorStore
	moderation ModerationStore
	config     domain.Config
}

func NewVerifier(directory *Directory, objects *ObjectResolver, actors ActorStore, moderation ModerationStore, config domain.Config) *Verifier {
	return &Verifier{
		directory:  directory,
		objects:    objects,
		actors:     actors,
		moderation: moderation,
		config:     config,
	}
}

// Verify checks an inbound activity against the pipeline for its kind.
func (v *Verifier) Verify(ctx context.Context, act domain.Activity, budget int) error {
	ctx, span := tracer.Start(ctx, "Verifier.Verify")
	defer span.End()

	switch act.Kind {
	case domain.KindBlock:
		return v.verifyBan(ctx, act, budget)
	case domain.KindDelete:
		return v.verifyDelete(ctx, act, budget)
	case domain.KindAdd, domain.KindRemove:
		return v.verifyCollection(ctx, act, budget)
	case domain.KindUndo:
		return v.verifyUndo(ctx, act, budget)
	case domain.KindAnnounce:
		return v.verifyAnnounce(ctx, act, budget)
	default:
		return fmt.Errorf("unsupported activity type %q", act.Kind)
	}
}

func (v *Verifier) verifyBan(ctx context.Context, act domain.Activity, budget int) error {
	if !act.IsPublic() {
		return domain.ErrAudienceMissing
	}
	if _, err := v.directory.ResolvePerson(ctx, act.Actor, budget); err != nil {
		return verificationCause(domain.ErrActorUnresolvable, err)
	}

	scope, err := v.directory.Resolve(ctx, act.Target, budget-1)
	if err != nil {
		return verificationCause(domain.ErrActorUnresolvable, err)
	}

	switch scope.Kind {
	case domain.ActorInstance:
		// A remote instance may only ban its own users, and never a
		// user whose home is this instance.
		if domain.Host(act.Object.URL) == v.config.FQDN {
			return domain.ErrSelfBan
		}
		if !domain.SameHost(scope.ID(), act.Actor) {
			return domain.ErrDomainMismatch
		}
		if !domain.SameHost(scope.ID(), act.Object.URL) {
			return domain.ErrDomainMismatch
		}
		return nil
	case domain.ActorCommunity:
		if err := v.verifyPersonInCommunity(ctx, act.Actor, scope.Community, budget); err != nil {
			return err
		}
		return v.verifyModAction(ctx, act.Actor, scope.Community)
	default:
		return domain.NotFoundError{Resource: "ban scope " + act.Target}
	}
}

func (v *Verifier) verifyDelete(ctx context.Context, act domain.Activity, budget int) error {
	obj, err := v.objects.ResolveByID(ctx, act.Object.URL)
	if err != nil {
		return err
	}

	if obj.Kind == domain.ObjectPrivateMessage {
		if _, err := v.directory.ResolvePerson(ctx, act.Actor, budget); err != nil {
			return verificationCause(domain.ErrActorUnresolvable, err)
		}
		if !domain.SameHost(act.Actor, obj.ID()) {
			return domain.ErrDomainMismatch
		}
		return nil
	}

	if !act.IsPublic() {
		return domain.ErrAudienceMissing
	}

	if obj.Kind == domain.ObjectCommunity {
		community := obj.Community
		if _, err := v.directory.Resolve(ctx, act.Actor, budget); err != nil {
			return verificationCause(domain.ErrActorUnresolvable, err)
		}
		// Deleting a community is always a mod-level action on it.
		if community.Local {
			if err := v.verifyPersonInCommunity(ctx, act.Actor, community, budget); err != nil {
				return err
			}
		}
		return v.verifyModAction(ctx, act.Actor, community)
	}

	communityID, _ := obj.CommunityID()
	community, err := v.directory.ResolveCommunity(ctx, communityID, budget-1)
	if err != nil {
		return err
	}
	if err := v.verifyPersonInCommunity(ctx, act.Actor, community, budget); err != nil {
		return err
	}
	if act.Summary != nil {
		return v.verifyModAction(ctx, act.Actor, community)
	}
	// An author deletion must come from the object's own instance.
	if !domain.SameHost(act.Actor, obj.ID()) {
		return domain.ErrDomainMismatch
	}
	return nil
}

func (v *Verifier) verifyCollection(ctx context.Context, act domain.Activity, budget int) error {
	if !act.IsPublic() {
		return domain.ErrAudienceMissing
	}
	community, _, err := v.objects.store.CommunityByCollectionURL(ctx, act.Target)
	if err != nil {
		return err
	}
	if act.Audience != "" && act.Audience != community.ID {
		return domain.ErrCommunityMismatch
	}
	if err := v.verifyPersonInCommunity(ctx, act.Actor, community, budget); err != nil {
		return err
	}
	return v.verifyModAction(ctx, act.Actor, community)
}

func (v *Verifier) verifyUndo(ctx context.Context, act domain.Activity, budget int) error {
	inner := act.Object.Embedded
	if inner == nil {
		return fmt.Errorf("undo activity %s carries no embedded object", act.ID)
	}
	if !domain.SameHost(act.Actor, inner.Actor) {
		return domain.ErrDomainMismatch
	}
	return v.Verify(ctx, *inner, budget-1)
}

func (v *Verifier) verifyAnnounce(ctx context.Context, act domain.Activity, budget int) error {
	if !act.IsPublic() {
		return domain.ErrAudienceMissing
	}
	if _, err := v.directory.ResolveCommunity(ctx, act.Actor, budget); err != nil {
		return verificationCause(domain.ErrActorUnresolvable, err)
	}
	inner := act.Object.Embedded
	if inner == nil {
		return fmt.Errorf("announce activity %s carries no embedded object", act.ID)
	}
	return v.Verify(ctx, *inner, budget-1)
}

// verifyPersonInCommunity checks that the acting person exists and is
// neither site-banned nor banned from the community.
func (v *Verifier) verifyPersonInCommunity(ctx context.Context, actorID string, community *domain.Community, budget int) error {
	person, err := v.directory.ResolvePerson(ctx, actorID, budget)
	if err != nil {
		return verificationCause(domain.ErrActorUnresolvable, err)
	}
	if person.Banned {
		return domain.ErrNotMember
	}
	banned, err := v.moderation.IsBannedFromCommunity(ctx, community.ID, person.ID)
	if err != nil {
		return err
	}
	if banned {
		return domain.ErrNotMember
	}
	return nil
}

// verifyModAction checks that the actor is a moderator of the
// community or a local admin.
func (v *Verifier) verifyModAction(ctx context.Context, actorID string, community *domain.Community) error {
	mod, err := v.moderation.IsModerator(ctx, community.ID, actorID)
	if err != nil {
		return err
	}
	if mod {
		return nil
	}
	admin, err := v.actors.IsLocalAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if admin {
		return nil
	}
	return domain.ErrNotModerator
}

// verificationCause keeps the taxonomy code while preserving the
// underlying failure, except budget exhaustion which surfaces as-is.
func verificationCause(verr domain.VerificationError, cause error) error {
	if errors.Is(cause, domain.ErrRecursionExceeded) {
		return cause
	}
	return fmt.Errorf("%w: %v", verr, cause)
}
