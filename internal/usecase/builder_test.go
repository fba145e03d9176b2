package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/stanionascu/lemmy/internal/domain"
)

func TestBuildBanCommunityAddressing(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	moderator := personActor("https://lemmy.local/u/mod", true)
	target := personActor("https://remote.example/u/troll", false)
	reason := "spam"
	expires := time.Now().Add(24 * time.Hour)

	act := env.builder.BuildBan(moderator, target, community, true, &reason, &expires)

	if !strings.HasPrefix(act.ID, "https://lemmy.local/activities/block/") {
		t.Fatalf("unexpected activity id %s", act.ID)
	}
	if !act.IsPublic() {
		t.Fatalf("ban must be publicly addressed")
	}
	if act.Target != community.ID || act.Audience != community.ID {
		t.Fatalf("ban must target the community")
	}
	found := false
	for _, cc := range act.Cc {
		if cc == community.FollowersURL {
			found = true
		}
	}
	if !found {
		t.Fatalf("cc must include the followers collection, got %v", act.Cc)
	}
	if act.RemoveData == nil || !*act.RemoveData {
		t.Fatalf("remove data flag lost")
	}
	if act.Summary == nil || *act.Summary != reason {
		t.Fatalf("reason lost")
	}
}

func TestBuildSiteBanTargetsLocalOrigin(t *testing.T) {
	env := newTestEnv()
	act := env.builder.BuildBan(personActor("https://lemmy.local/u/admin", true), personActor("https://lemmy.local/u/troll", true), nil, false, nil, nil)
	if act.Target != "https://lemmy.local" {
		t.Fatalf("site ban must target the local origin, got %s", act.Target)
	}
}

func TestBuildUndoBanEmbedsInner(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	act := env.builder.BuildUndoBan(personActor("https://lemmy.local/u/mod", true), personActor("https://remote.example/u/troll", false), community, nil)

	if act.Kind != domain.KindUndo {
		t.Fatalf("expected undo, got %s", act.Kind)
	}
	inner := act.Object.Embedded
	if inner == nil || inner.Kind != domain.KindBlock {
		t.Fatalf("undo must embed the block it lifts")
	}
	if act.Object.URL != inner.ID {
		t.Fatalf("object url must mirror the embedded id")
	}
	if inner.ID == act.ID {
		t.Fatalf("inner and outer ids must differ")
	}
}

func TestBuildAnnounceWrapsActivity(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	inner := env.builder.BuildDelete(personActor("https://lemmy.local/u/a", true), "https://lemmy.local/post/1", community, nil)

	act := env.builder.BuildAnnounce(community, inner)
	if act.Actor != community.ID {
		t.Fatalf("announce actor must be the community")
	}
	if act.Object.Embedded == nil || act.Object.Embedded.ID != inner.ID {
		t.Fatalf("announce must embed the relayed activity")
	}
	if !act.IsPublic() {
		t.Fatalf("announce must be public")
	}
}

func TestBuildIDsAreUnique(t *testing.T) {
	env := newTestEnv()
	a := env.builder.BuildDelete(personActor("https://lemmy.local/u/a", true), "https://lemmy.local/post/1", nil, nil)
	b := env.builder.BuildDelete(personActor("https://lemmy.local/u/a", true), "https://lemmy.local/post/1", nil, nil)
	if a.ID == b.ID {
		t.Fatalf("activity ids must never repeat")
	}
}
