package usecase

import (
	"context"
	"time"

	"github.com/stanionascu/lemmy/internal/domain"
)

// ActorStore is the shared actor cache. Mutations race-protect
// through storage uniqueness on the identity URL.
type ActorStore interface {
	GetByID(ctx context.Context, id string) (domain.Actor, error)
	Upsert(ctx context.Context, actor domain.Actor) error
	IsLocalAdmin(ctx context.Context, personID string) (bool, error)
}

// ActorFetcher dereferences a remote actor document.
type ActorFetcher interface {
	Fetch(ctx context.Context, id string) (domain.Actor, error)
	Invalidate(id string)
}

// ObjectStore reads and mutates deletable content objects in local
// storage.
type ObjectStore interface {
	CommunityByID(ctx context.Context, id string) (*domain.Community, error)
	PostByID(ctx context.Context, id string) (*domain.Post, error)
	CommentByID(ctx context.Context, id string) (*domain.Comment, error)
	PrivateMessageByID(ctx context.Context, id string) (*domain.PrivateMessage, error)
	CommunityByCollectionURL(ctx context.Context, url string) (*domain.Community, domain.CollectionType, error)
	SetCommunityDeleted(ctx context.Context, id string, deleted bool) error
	SetCommunityRemoved(ctx context.Context, id string, removed bool) error
	SetPostDeleted(ctx context.Context, id string, deleted bool) error
	SetPostRemoved(ctx context.Context, id string, removed bool) error
	SetPostFeatured(ctx context.Context, id string, featured bool) error
	SetCommentDeleted(ctx context.Context, id string, deleted bool) error
	SetCommentRemoved(ctx context.Context, id string, removed bool) error
	SetPrivateMessageDeleted(ctx context.Context, id string, deleted bool) error
}

// ModerationStore owns bans, the moderator roster and the mod log.
type ModerationStore interface {
	SetPersonBanned(ctx context.Context, personID string, banned bool, expires *time.Time) error
	UpsertCommunityBan(ctx context.Context, communityID, personID string, expires *time.Time) error
	DeleteCommunityBan(ctx context.Context, communityID, personID string) error
	IsBannedFromCommunity(ctx context.Context, communityID, personID string) (bool, error)
	Unfollow(ctx context.Context, communityID, personID string) error
	AddModerator(ctx context.Context, communityID, personID string) (bool, error)
	RemoveModerator(ctx context.Context, communityID, personID string) (bool, error)
	IsModerator(ctx context.Context, communityID, personID string) (bool, error)
	CreateModLog(ctx context.Context, entry domain.ModLogEntry) error
	RemovePersonContent(ctx context.Context, personID string, communityID *string) error
}

// FollowerStore reads follower relations for fan-out. Read-only here.
type FollowerStore interface {
	CommunityFollowerInboxes(ctx context.Context, communityID string) ([]string, error)
	PersonFollowerInboxes(ctx context.Context, personID string) ([]string, error)
	RemoteInstanceInboxes(ctx context.Context) ([]string, error)
}

// Deliverer posts one activity to one inbox.
type Deliverer interface {
	Deliver(ctx context.Context, inbox string, activity domain.Activity) error
}

// Notifier publishes a local update event after a state mutation.
type Notifier interface {
	Publish(ctx context.Context, event domain.Event) error
}

// DedupStore remembers received activity ids. Seen reserves the id;
// Forget gives the reservation back when processing fails.
type DedupStore interface {
	Seen(ctx context.Context, activityID string) (bool, error)
	Forget(ctx context.Context, activityID string) error
}
