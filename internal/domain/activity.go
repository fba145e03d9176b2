package domain

import (
	"encoding/json"
	"net/url"
	"time"
)

// PublicAudience is the well-known marker for publicly addressed activities.
const PublicAudience = "https://www.w3.org/ns/activitystreams#Public"

type ActivityKind string

const (
	KindBlock    ActivityKind = "Block"
	KindDelete   ActivityKind = "Delete"
	KindAdd      ActivityKind = "Add"
	KindRemove   ActivityKind = "Remove"
	KindUndo     ActivityKind = "Undo"
	KindAnnounce ActivityKind = "Announce"
)

// ObjectRef is either a bare object URL or an embedded activity
// (Undo and Announce carry the activity they refer to inline).
type ObjectRef struct {
	URL      string
	Embedded *Activity
}

func (o ObjectRef) MarshalJSON() ([]byte, error) {
	if o.Embedded != nil {
		return json.Marshal(o.Embedded)
	}
	return json.Marshal(o.URL)
}

func (o *ObjectRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.URL = s
		return nil
	}
	var inner Activity
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	o.Embedded = &inner
	o.URL = inner.ID
	return nil
}

// Activity is a single assertion of an action exchanged between instances.
// Once built its id never changes; a later action is expressed as a new
// activity (Undo) rather than a mutation.
type Activity struct {
	ID       string       `json:"id"`
	Kind     ActivityKind `json:"type"`
	Actor    string       `json:"actor"`
	Object   ObjectRef    `json:"object"`
	Target   string       `json:"target,omitempty"`
	To       []string     `json:"to,omitempty"`
	Cc       []string     `json:"cc,omitempty"`
	Audience string       `json:"audience,omitempty"`
	Summary  *string      `json:"summary,omitempty"`
	Expires  *time.Time   `json:"expires,omitempty"`

	// RemoveData asks the receiver to also purge the target's content.
	// Only meaningful on Block.
	RemoveData *bool `json:"removeData,omitempty"`
}

// IsPublic reports whether the public audience marker appears in to or cc.
func (a Activity) IsPublic() bool {
	for _, v := range a.To {
		if v == PublicAudience {
			return true
		}
	}
	for _, v := range a.Cc {
		if v == PublicAudience {
			return true
		}
	}
	return false
}

// ModAction reports whether the activity is a moderation-class action.
// These are addressed to community followers only, never to the acting
// actor's personal followers.
func (a Activity) ModAction() bool {
	switch a.Kind {
	case KindBlock, KindAdd, KindRemove:
		return true
	case KindUndo:
		if a.Object.Embedded != nil {
			return a.Object.Embedded.ModAction()
		}
	case KindDelete:
		return a.Summary != nil
	}
	return false
}

// Host returns the hostname component of an identifier URL.
func Host(id string) string {
	u, err := url.Parse(id)
	if err != nil {
		return ""
	}
	return u.Host
}

// SameHost reports whether two identifier URLs share a hostname.
func SameHost(a, b string) bool {
	ha := Host(a)
	return ha != "" && ha == Host(b)
}
