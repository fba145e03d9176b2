package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stanionascu/lemmy/internal/domain"
)

func TestVerifyBanRequiresPublicAudience(t *testing.T) {
	env := newTestEnv()
	act := domain.Activity{
		ID:     "https://remote.example/activities/block/1",
		Kind:   domain.KindBlock,
		Actor:  "https://remote.example/u/mod",
		Object: domain.ObjectRef{URL: "https://remote.example/u/spammer"},
		Target: "https://remote.example/",
	}

	err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget)
	if !errors.Is(err, domain.ErrAudienceMissing) {
		t.Fatalf("expected audience error, got %v", err)
	}
}

func TestVerifySiteBanRejectsLocalTarget(t *testing.T) {
	env := newTestEnv()
	env.actors.put(personActor("https://remote.example/u/admin", false))
	env.actors.put(instanceActor("https://remote.example/", false))

	act := domain.Activity{
		ID:     "https://remote.example/activities/block/1",
		Kind:   domain.KindBlock,
		Actor:  "https://remote.example/u/admin",
		Object: domain.ObjectRef{URL: "https://lemmy.local/u/alice"},
		Target: "https://remote.example/",
		To:     []string{domain.PublicAudience},
	}

	err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget)
	if !errors.Is(err, domain.ErrSelfBan) {
		t.Fatalf("expected self ban rejection, got %v", err)
	}
}

func TestVerifySiteBanRejectsForeignTarget(t *testing.T) {
	env := newTestEnv()
	env.actors.put(personActor("https://remote.example/u/admin", false))
	env.actors.put(instanceActor("https://remote.example/", false))

	act := domain.Activity{
		ID:     "https://remote.example/activities/block/2",
		Kind:   domain.KindBlock,
		Actor:  "https://remote.example/u/admin",
		Object: domain.ObjectRef{URL: "https://third.example/u/bob"},
		Target: "https://remote.example/",
		To:     []string{domain.PublicAudience},
	}

	err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget)
	if !errors.Is(err, domain.ErrDomainMismatch) {
		t.Fatalf("expected domain mismatch, got %v", err)
	}
}

func TestVerifySiteBanAccepted(t *testing.T) {
	env := newTestEnv()
	env.actors.put(personActor("https://remote.example/u/admin", false))
	env.actors.put(personActor("https://remote.example/u/spammer", false))
	env.actors.put(instanceActor("https://remote.example/", false))

	act := domain.Activity{
		ID:     "https://remote.example/activities/block/3",
		Kind:   domain.KindBlock,
		Actor:  "https://remote.example/u/admin",
		Object: domain.ObjectRef{URL: "https://remote.example/u/spammer"},
		Target: "https://remote.example/",
		To:     []string{domain.PublicAudience},
	}

	if err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget); err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
}

func TestVerifyCommunityBanRequiresModerator(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	env.addCommunity(community)
	env.actors.put(personActor("https://remote.example/u/mallory", false))
	env.actors.put(personActor("https://remote.example/u/victim", false))

	act := domain.Activity{
		ID:     "https://remote.example/activities/block/4",
		Kind:   domain.KindBlock,
		Actor:  "https://remote.example/u/mallory",
		Object: domain.ObjectRef{URL: "https://remote.example/u/victim"},
		Target: community.ID,
		To:     []string{domain.PublicAudience},
	}

	err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget)
	if !errors.Is(err, domain.ErrNotModerator) {
		t.Fatalf("expected moderator rejection, got %v", err)
	}

	env.moderation.moderators[pairKey(community.ID, "https://remote.example/u/mallory")] = true
	if err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget); err != nil {
		t.Fatalf("expected acceptance once moderator, got %v", err)
	}
}

func TestVerifyLocalAdminCountsAsModerator(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	env.addCommunity(community)
	env.actors.put(personActor("https://lemmy.local/u/admin", true))
	env.actors.put(personActor("https://remote.example/u/victim", false))
	env.actors.admins["https://lemmy.local/u/admin"] = true

	act := domain.Activity{
		ID:     "https://lemmy.local/activities/block/5",
		Kind:   domain.KindBlock,
		Actor:  "https://lemmy.local/u/admin",
		Object: domain.ObjectRef{URL: "https://remote.example/u/victim"},
		Target: community.ID,
		To:     []string{domain.PublicAudience},
	}

	if err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget); err != nil {
		t.Fatalf("expected admin to pass mod check, got %v", err)
	}
}

func TestVerifyBannedActorIsNotMember(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	env.addCommunity(community)
	actorID := "https://remote.example/u/banned"
	env.actors.put(personActor(actorID, false))
	env.actors.put(personActor("https://remote.example/u/victim", false))
	env.moderation.moderators[pairKey(community.ID, actorID)] = true
	env.moderation.communityBans[pairKey(community.ID, actorID)] = true

	act := domain.Activity{
		ID:     "https://remote.example/activities/block/6",
		Kind:   domain.KindBlock,
		Actor:  actorID,
		Object: domain.ObjectRef{URL: "https://remote.example/u/victim"},
		Target: community.ID,
		To:     []string{domain.PublicAudience},
	}

	err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget)
	if !errors.Is(err, domain.ErrNotMember) {
		t.Fatalf("expected membership rejection, got %v", err)
	}
}

func TestVerifyAuthorDeleteDomainMismatch(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	env.addCommunity(community)
	env.actors.put(personActor("https://third.example/u/impostor", false))
	env.objects.posts["https://remote.example/post/1"] = &domain.Post{
		ID:          "https://remote.example/post/1",
		CreatorID:   "https://remote.example/u/author",
		CommunityID: community.ID,
	}

	act := domain.Activity{
		ID:     "https://third.example/activities/delete/1",
		Kind:   domain.KindDelete,
		Actor:  "https://third.example/u/impostor",
		Object: domain.ObjectRef{URL: "https://remote.example/post/1"},
		To:     []string{domain.PublicAudience},
	}

	err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget)
	if !errors.Is(err, domain.ErrDomainMismatch) {
		t.Fatalf("expected domain mismatch, got %v", err)
	}
}

func TestVerifyModRemovalSkipsDomainCheck(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	env.addCommunity(community)
	modID := "https://third.example/u/mod"
	env.actors.put(personActor(modID, false))
	env.moderation.moderators[pairKey(community.ID, modID)] = true
	env.objects.posts["https://remote.example/post/1"] = &domain.Post{
		ID:          "https://remote.example/post/1",
		CreatorID:   "https://remote.example/u/author",
		CommunityID: community.ID,
	}

	reason := "spam"
	act := domain.Activity{
		ID:      "https://third.example/activities/delete/2",
		Kind:    domain.KindDelete,
		Actor:   modID,
		Object:  domain.ObjectRef{URL: "https://remote.example/post/1"},
		To:      []string{domain.PublicAudience},
		Summary: &reason,
	}

	if err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget); err != nil {
		t.Fatalf("expected mod removal to verify, got %v", err)
	}
}

func TestVerifyCollectionAudienceMismatch(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	env.addCommunity(community)
	modID := "https://remote.example/u/mod"
	env.actors.put(personActor(modID, false))
	env.moderation.moderators[pairKey(community.ID, modID)] = true

	act := domain.Activity{
		ID:       "https://remote.example/activities/add/1",
		Kind:     domain.KindAdd,
		Actor:    modID,
		Object:   domain.ObjectRef{URL: "https://remote.example/u/newmod"},
		Target:   community.ModeratorsURL,
		To:       []string{domain.PublicAudience},
		Audience: "https://other.example/c/news",
	}

	err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget)
	if !errors.Is(err, domain.ErrCommunityMismatch) {
		t.Fatalf("expected community mismatch, got %v", err)
	}
}

func TestVerifyUndoActorDomainMismatch(t *testing.T) {
	env := newTestEnv()
	inner := domain.Activity{
		ID:     "https://remote.example/activities/block/7",
		Kind:   domain.KindBlock,
		Actor:  "https://remote.example/u/mod",
		Object: domain.ObjectRef{URL: "https://remote.example/u/victim"},
		Target: "https://remote.example/",
		To:     []string{domain.PublicAudience},
	}
	act := domain.Activity{
		ID:     "https://third.example/activities/undo/1",
		Kind:   domain.KindUndo,
		Actor:  "https://third.example/u/mod",
		Object: domain.ObjectRef{URL: inner.ID, Embedded: &inner},
		To:     []string{domain.PublicAudience},
	}

	err := env.verifier.Verify(context.Background(), act, DefaultDepthBudget)
	if !errors.Is(err, domain.ErrDomainMismatch) {
		t.Fatalf("expected domain mismatch, got %v", err)
	}
}
