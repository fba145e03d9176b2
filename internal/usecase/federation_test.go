package usecase

import (
	"context"
	"testing"

	"github.com/stanionascu/lemmy/internal/domain"
)

func TestSendSiteBanReachesAllInstances(t *testing.T) {
	env := newTestEnv()
	env.followers.instanceInboxes = []string{
		"https://a.example/inbox",
		"https://b.example/inbox",
	}
	admin := personActor("https://lemmy.local/u/admin", true)
	target := personActor("https://remote.example/u/troll", false)

	if err := env.federation.SendSiteBan(context.Background(), admin, target, true, false, nil, nil); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(env.deliverer.deliveries) != 3 {
		t.Fatalf("expected every instance plus the target inbox, got %d", len(env.deliverer.deliveries))
	}
	for _, d := range env.deliverer.deliveries {
		if d.activity.Kind != domain.KindBlock {
			t.Fatalf("expected block activity, got %s", d.activity.Kind)
		}
	}
}

func TestSendCommunityBanIncludesTargetInbox(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://lemmy.local/c/tech", true)
	env.addCommunity(community)
	env.followers.communityInboxes[community.ID] = []string{"https://a.example/inbox"}
	moderator := personActor("https://lemmy.local/u/mod", true)
	target := personActor("https://remote.example/u/troll", false)

	if err := env.federation.SendCommunityBan(context.Background(), moderator, target, community, true, false, nil, nil); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	var direct, announced int
	for _, d := range env.deliverer.deliveries {
		switch d.activity.Kind {
		case domain.KindBlock:
			direct++
			if d.inbox != target.SharedInboxOrInbox() {
				t.Fatalf("plain block must go to the target inbox, got %s", d.inbox)
			}
		case domain.KindAnnounce:
			announced++
		}
	}
	if direct != 1 || announced != 1 {
		t.Fatalf("expected one direct and one announced delivery, got %d/%d", direct, announced)
	}
}

func TestSendUnbanWrapsInUndo(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://other.example/c/news", false)
	env.addCommunity(community)
	moderator := personActor("https://lemmy.local/u/mod", true)
	target := personActor("https://remote.example/u/troll", false)

	if err := env.federation.SendCommunityBan(context.Background(), moderator, target, community, false, false, nil, nil); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(env.deliverer.deliveries) == 0 {
		t.Fatalf("expected deliveries")
	}
	for _, d := range env.deliverer.deliveries {
		if d.activity.Kind != domain.KindUndo {
			t.Fatalf("unban must federate as undo, got %s", d.activity.Kind)
		}
		if d.activity.Object.Embedded == nil || d.activity.Object.Embedded.Kind != domain.KindBlock {
			t.Fatalf("undo must embed the block")
		}
	}
}

func TestSendModeratorChangeNotifiesNewModerator(t *testing.T) {
	env := newTestEnv()
	community := testCommunity("https://other.example/c/news", false)
	env.addCommunity(community)
	actor := personActor("https://lemmy.local/u/mod", true)
	newMod := personActor("https://remote.example/u/fresh", false)

	if err := env.federation.SendModeratorChange(context.Background(), actor, newMod, community, true); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	found := false
	for _, d := range env.deliverer.deliveries {
		if d.inbox == newMod.SharedInboxOrInbox() {
			found = true
			if d.activity.Kind != domain.KindAdd {
				t.Fatalf("expected add activity, got %s", d.activity.Kind)
			}
			if d.activity.Target != community.ModeratorsURL {
				t.Fatalf("expected moderators collection target, got %s", d.activity.Target)
			}
		}
	}
	if !found {
		t.Fatalf("new moderator inbox must receive the activity directly")
	}
}

func TestSendPrivateMessageDeleteStaysPrivate(t *testing.T) {
	env := newTestEnv()
	actor := personActor("https://lemmy.local/u/a", true)
	recipient := personActor("https://remote.example/u/b", false)

	if err := env.federation.SendPrivateMessageDelete(context.Background(), actor, recipient, "https://lemmy.local/pm/1", true); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(env.deliverer.deliveries) != 1 {
		t.Fatalf("expected a single delivery, got %d", len(env.deliverer.deliveries))
	}
	act := env.deliverer.deliveries[0].activity
	if act.IsPublic() {
		t.Fatalf("private message deletion must not be public")
	}
	if len(act.To) != 1 || act.To[0] != recipient.ID() {
		t.Fatalf("expected recipient-only addressing, got %v", act.To)
	}
}
