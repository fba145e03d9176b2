package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/stanionascu/lemmy/internal/domain"
)

type testEnv struct {
	actors     *mockActorStore
	fetcher    *mockFetcher
	objects    *mockObjectStore
	moderation *mockModerationStore
	followers  *mockFollowerStore
	deliverer  *mockDeliverer
	notifier   *mockNotifier
	dedup      *mockDedup

	config     domain.Config
	directory  *Directory
	resolver   *ObjectResolver
	builder    *Builder
	dispatcher *Dispatcher
	verifier   *Verifier
	applier    *Applier
	processor  *Processor
	federation *Federation
}

func newTestEnv() *testEnv {
	env := &testEnv{
		actors:     newMockActorStore(),
		fetcher:    &mockFetcher{actors: map[string]domain.Actor{}},
		objects:    newMockObjectStore(),
		moderation: newMockModerationStore(),
		followers:  newMockFollowerStore(),
		deliverer:  &mockDeliverer{},
		notifier:   &mockNotifier{},
		dedup:      &mockDedup{},
		config:     domain.Config{FQDN: "lemmy.local"},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.directory = NewDirectory(env.actors, env.fetcher)
	env.resolver = NewObjectResolver(env.objects)
	env.builder = NewBuilder(env.config)
	env.dispatcher = NewDispatcher(env.deliverer, env.followers, env.builder, log)
	env.verifier = NewVerifier(env.directory, env.resolver, env.actors, env.moderation, env.config)
	env.applier = NewApplier(env.directory, env.resolver, env.objects, env.moderation, env.dispatcher, env.notifier, env.config, log)
	env.processor = NewProcessor(env.verifier, env.applier, env.dedup, log)
	env.federation = NewFederation(env.builder, env.dispatcher, env.followers, log)
	return env
}

func personActor(id string, local bool) domain.Actor {
	return domain.Actor{Kind: domain.ActorPerson, Person: &domain.Person{
		ID:        id,
		Local:     local,
		Inbox:     id + "/inbox",
		FetchedAt: time.Now(),
	}}
}

func instanceActor(id string, local bool) domain.Actor {
	return domain.Actor{Kind: domain.ActorInstance, Instance: &domain.Instance{
		ID:        id,
		Local:     local,
		Inbox:     id + "/inbox",
		FetchedAt: time.Now(),
	}}
}

func testCommunity(id string, local bool) *domain.Community {
	return &domain.Community{
		ID:            id,
		Local:         local,
		Inbox:         id + "/inbox",
		SharedInbox:   "https://" + domain.Host(id) + "/inbox",
		FollowersURL:  id + "/followers",
		ModeratorsURL: id + "/moderators",
		FeaturedURL:   id + "/featured",
		FetchedAt:     time.Now(),
	}
}

// addCommunity registers a community with the actor store, the object
// store and both of its collection URLs.
func (env *testEnv) addCommunity(c *domain.Community) {
	env.actors.put(domain.Actor{Kind: domain.ActorCommunity, Community: c})
	env.objects.communities[c.ID] = c
	env.objects.collections[c.ModeratorsURL] = collectionEntry{community: c, collection: domain.CollectionModerators}
	env.objects.collections[c.FeaturedURL] = collectionEntry{community: c, collection: domain.CollectionFeatured}
}
