package usecase

import (
	"context"
	"time"

	"github.com/stanionascu/lemmy/internal/domain"
)

type mockActorStore struct {
	actors  map[string]domain.Actor
	admins  map[string]bool
	upserts []domain.Actor
}

func newMockActorStore() *mockActorStore {
	return &mockActorStore{
		actors: map[string]domain.Actor{},
		admins: map[string]bool{},
	}
}

func (m *mockActorStore) put(actor domain.Actor) {
	m.actors[actor.ID()] = actor
}

func (m *mockActorStore) GetByID(ctx context.Context, id string) (domain.Actor, error) {
	actor, ok := m.actors[id]
	if !ok {
		return domain.Actor{}, domain.NotFoundError{Resource: "actor " + id}
	}
	return actor, nil
}

// Upsert mirrors the repository conflict clause: refetched documents
// never overwrite locally owned moderation columns.
func (m *mockActorStore) Upsert(ctx context.Context, actor domain.Actor) error {
	if prev, ok := m.actors[actor.ID()]; ok && prev.Kind == actor.Kind {
		switch actor.Kind {
		case domain.ActorPerson:
			p := *actor.Person
			p.Admin = prev.Person.Admin
			p.Banned = prev.Person.Banned
			p.BanExpires = prev.Person.BanExpires
			actor.Person = &p
		case domain.ActorCommunity:
			c := *actor.Community
			c.Deleted = prev.Community.Deleted
			c.Removed = prev.Community.Removed
			actor.Community = &c
		}
	}
	m.actors[actor.ID()] = actor
	m.upserts = append(m.upserts, actor)
	return nil
}

func (m *mockActorStore) IsLocalAdmin(ctx context.Context, personID string) (bool, error) {
	return m.admins[personID], nil
}

type mockFetcher struct {
	actors      map[string]domain.Actor
	calls       int
	err         error
	invalidated []string
}

func (m *mockFetcher) Fetch(ctx context.Context, id string) (domain.Actor, error) {
	m.calls++
	if m.err != nil {
		return domain.Actor{}, m.err
	}
	actor, ok := m.actors[id]
	if !ok {
		return domain.Actor{}, domain.NotFoundError{Resource: "actor " + id}
	}
	return actor, nil
}

func (m *mockFetcher) Invalidate(id string) {
	m.invalidated = append(m.invalidated, id)
}

type collectionEntry struct {
	community  *domain.Community
	collection domain.CollectionType
}

type mockObjectStore struct {
	communities map[string]*domain.Community
	posts       map[string]*domain.Post
	comments    map[string]*domain.Comment
	messages    map[string]*domain.PrivateMessage
	collections map[string]collectionEntry
	writes      int
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{
		communities: map[string]*domain.Community{},
		posts:       map[string]*domain.Post{},
		comments:    map[string]*domain.Comment{},
		messages:    map[string]*domain.PrivateMessage{},
		collections: map[string]collectionEntry{},
	}
}

func (m *mockObjectStore) CommunityByID(ctx context.Context, id string) (*domain.Community, error) {
	if c, ok := m.communities[id]; ok {
		return c, nil
	}
	return nil, domain.NotFoundError{Resource: "community"}
}

func (m *mockObjectStore) PostByID(ctx context.Context, id string) (*domain.Post, error) {
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, domain.NotFoundError{Resource: "post"}
}

func (m *mockObjectStore) CommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	if c, ok := m.comments[id]; ok {
		return c, nil
	}
	return nil, domain.NotFoundError{Resource: "comment"}
}

func (m *mockObjectStore) PrivateMessageByID(ctx context.Context, id string) (*domain.PrivateMessage, error) {
	if pm, ok := m.messages[id]; ok {
		return pm, nil
	}
	return nil, domain.NotFoundError{Resource: "private message"}
}

func (m *mockObjectStore) CommunityByCollectionURL(ctx context.Context, url string) (*domain.Community, domain.CollectionType, error) {
	if e, ok := m.collections[url]; ok {
		return e.community, e.collection, nil
	}
	return nil, 0, domain.NotFoundError{Resource: "collection"}
}

func (m *mockObjectStore) SetCommunityDeleted(ctx context.Context, id string, deleted bool) error {
	m.writes++
	m.communities[id].Deleted = deleted
	return nil
}

func (m *mockObjectStore) SetCommunityRemoved(ctx context.Context, id string, removed bool) error {
	m.writes++
	m.communities[id].Removed = removed
	return nil
}

func (m *mockObjectStore) SetPostDeleted(ctx context.Context, id string, deleted bool) error {
	m.writes++
	m.posts[id].Deleted = deleted
	return nil
}

func (m *mockObjectStore) SetPostRemoved(ctx context.Context, id string, removed bool) error {
	m.writes++
	m.posts[id].Removed = removed
	return nil
}

func (m *mockObjectStore) SetPostFeatured(ctx context.Context, id string, featured bool) error {
	m.writes++
	m.posts[id].FeaturedCommunity = featured
	return nil
}

func (m *mockObjectStore) SetCommentDeleted(ctx context.Context, id string, deleted bool) error {
	m.writes++
	m.comments[id].Deleted = deleted
	return nil
}

func (m *mockObjectStore) SetCommentRemoved(ctx context.Context, id string, removed bool) error {
	m.writes++
	m.comments[id].Removed = removed
	return nil
}

func (m *mockObjectStore) SetPrivateMessageDeleted(ctx context.Context, id string, deleted bool) error {
	m.writes++
	m.messages[id].Deleted = deleted
	return nil
}

type mockModerationStore struct {
	moderators    map[string]bool
	communityBans map[string]bool
	siteBans      map[string]bool
	unfollows     []string
	cascades      []string
	modlog        []domain.ModLogEntry
}

func newMockModerationStore() *mockModerationStore {
	return &mockModerationStore{
		moderators:    map[string]bool{},
		communityBans: map[string]bool{},
		siteBans:      map[string]bool{},
	}
}

func pairKey(communityID, personID string) string {
	return communityID + "|" + personID
}

func (m *mockModerationStore) SetPersonBanned(ctx context.Context, personID string, banned bool, expires *time.Time) error {
	m.siteBans[personID] = banned
	return nil
}

func (m *mockModerationStore) UpsertCommunityBan(ctx context.Context, communityID, personID string, expires *time.Time) error {
	m.communityBans[pairKey(communityID, personID)] = true
	return nil
}

func (m *mockModerationStore) DeleteCommunityBan(ctx context.Context, communityID, personID string) error {
	delete(m.communityBans, pairKey(communityID, personID))
	return nil
}

func (m *mockModerationStore) IsBannedFromCommunity(ctx context.Context, communityID, personID string) (bool, error) {
	return m.communityBans[pairKey(communityID, personID)], nil
}

func (m *mockModerationStore) Unfollow(ctx context.Context, communityID, personID string) error {
	m.unfollows = append(m.unfollows, pairKey(communityID, personID))
	return nil
}

func (m *mockModerationStore) AddModerator(ctx context.Context, communityID, personID string) (bool, error) {
	key := pairKey(communityID, personID)
	if m.moderators[key] {
		return false, nil
	}
	m.moderators[key] = true
	return true, nil
}

func (m *mockModerationStore) RemoveModerator(ctx context.Context, communityID, personID string) (bool, error) {
	key := pairKey(communityID, personID)
	if !m.moderators[key] {
		return false, nil
	}
	delete(m.moderators, key)
	return true, nil
}

func (m *mockModerationStore) IsModerator(ctx context.Context, communityID, personID string) (bool, error) {
	return m.moderators[pairKey(communityID, personID)], nil
}

func (m *mockModerationStore) CreateModLog(ctx context.Context, entry domain.ModLogEntry) error {
	m.modlog = append(m.modlog, entry)
	return nil
}

func (m *mockModerationStore) RemovePersonContent(ctx context.Context, personID string, communityID *string) error {
	m.cascades = append(m.cascades, personID)
	return nil
}

type mockFollowerStore struct {
	communityInboxes map[string][]string
	personInboxes    map[string][]string
	instanceInboxes  []string
}

func newMockFollowerStore() *mockFollowerStore {
	return &mockFollowerStore{
		communityInboxes: map[string][]string{},
		personInboxes:    map[string][]string{},
	}
}

func (m *mockFollowerStore) CommunityFollowerInboxes(ctx context.Context, communityID string) ([]string, error) {
	return m.communityInboxes[communityID], nil
}

func (m *mockFollowerStore) PersonFollowerInboxes(ctx context.Context, personID string) ([]string, error) {
	return m.personInboxes[personID], nil
}

func (m *mockFollowerStore) RemoteInstanceInboxes(ctx context.Context) ([]string, error) {
	return m.instanceInboxes, nil
}

type delivery struct {
	inbox    string
	activity domain.Activity
}

type mockDeliverer struct {
	deliveries []delivery
	fail       map[string]error
}

func (m *mockDeliverer) Deliver(ctx context.Context, inbox string, activity domain.Activity) error {
	if err, ok := m.fail[inbox]; ok {
		return err
	}
	m.deliveries = append(m.deliveries, delivery{inbox: inbox, activity: activity})
	return nil
}

type mockNotifier struct {
	events []domain.Event
}

func (m *mockNotifier) Publish(ctx context.Context, event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}

type mockDedup struct {
	seen    map[string]bool
	forgets int
}

func (m *mockDedup) Seen(ctx context.Context, activityID string) (bool, error) {
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[activityID] {
		return true, nil
	}
	m.seen[activityID] = true
	return false, nil
}

func (m *mockDedup) Forget(ctx context.Context, activityID string) error {
	delete(m.seen, activityID)
	m.forgets++
	return nil
}
