package domain

import "time"

type ActorKind string

const (
	ActorPerson    ActorKind = "Person"
	ActorCommunity ActorKind = "Group"
	ActorInstance  ActorKind = "Application"
)

// Person is a user account, local or cached remote.
type Person struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Local       bool       `json:"local"`
	Admin       bool       `json:"admin"`
	Banned      bool       `json:"banned"`
	BanExpires  *time.Time `json:"banExpires,omitempty"`
	Inbox       string     `json:"inbox"`
	SharedInbox string     `json:"sharedInbox,omitempty"`
	FetchedAt   time.Time  `json:"fetchedAt"`
}

// Community is a forum-like group actor. Local communities relay
// activities to their own followers; remote ones are reached through
// their shared inbox.
type Community struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Local         bool      `json:"local"`
	Deleted       bool      `json:"deleted"`
	Removed       bool      `json:"removed"`
	Inbox         string    `json:"inbox"`
	SharedInbox   string    `json:"sharedInbox,omitempty"`
	FollowersURL  string    `json:"followersUrl"`
	ModeratorsURL string    `json:"moderatorsUrl"`
	FeaturedURL   string    `json:"featuredUrl"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

// Instance is the site-level actor of one federated server.
type Instance struct {
	ID          string    `json:"id"`
	Local       bool      `json:"local"`
	Inbox       string    `json:"inbox"`
	SharedInbox string    `json:"sharedInbox,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Actor is the closed union over the three actor kinds. Exactly one
// variant is set, selected by Kind.
type Actor struct {
	Kind      ActorKind
	Person    *Person
	Community *Community
	Instance  *Instance
}

func (a Actor) ID() string {
	switch a.Kind {
	case ActorPerson:
		return a.Person.ID
	case ActorCommunity:
		return a.Community.ID
	case ActorInstance:
		return a.Instance.ID
	}
	return ""
}

func (a Actor) Local() bool {
	switch a.Kind {
	case ActorPerson:
		return a.Person.Local
	case ActorCommunity:
		return a.Community.Local
	case ActorInstance:
		return a.Instance.Local
	}
	return false
}

// SharedInboxOrInbox prefers the instance-wide shared inbox when the
// actor advertises one.
func (a Actor) SharedInboxOrInbox() string {
	var shared, inbox string
	switch a.Kind {
	case ActorPerson:
		shared, inbox = a.Person.SharedInbox, a.Person.Inbox
	case ActorCommunity:
		shared, inbox = a.Community.SharedInbox, a.Community.Inbox
	case ActorInstance:
		shared, inbox = a.Instance.SharedInbox, a.Instance.Inbox
	}
	if shared != "" {
		return shared
	}
	return inbox
}

func (a Actor) FetchedAt() time.Time {
	switch a.Kind {
	case ActorPerson:
		return a.Person.FetchedAt
	case ActorCommunity:
		return a.Community.FetchedAt
	case ActorInstance:
		return a.Instance.FetchedAt
	}
	return time.Time{}
}

// Domain returns the actor's home hostname.
func (a Actor) Domain() string {
	return Host(a.ID())
}
