package domain

// Post is a top-level submission in a community.
type Post struct {
	ID                string `json:"id"`
	CreatorID         string `json:"creatorId"`
	CommunityID       string `json:"communityId"`
	Deleted           bool   `json:"deleted"`
	Removed           bool   `json:"removed"`
	FeaturedCommunity bool   `json:"featuredCommunity"`
}

// Comment is a reply to a post or to another comment.
type Comment struct {
	ID          string  `json:"id"`
	CreatorID   string  `json:"creatorId"`
	PostID      string  `json:"postId"`
	CommunityID string  `json:"communityId"`
	ParentID    *string `json:"parentId,omitempty"`
	Deleted     bool    `json:"deleted"`
	Removed     bool    `json:"removed"`
}

// PrivateMessage is a direct message between two persons. It has no
// owning community and is never publicly addressed.
type PrivateMessage struct {
	ID          string `json:"id"`
	CreatorID   string `json:"creatorId"`
	RecipientID string `json:"recipientId"`
	Deleted     bool   `json:"deleted"`
}

type ObjectKind string

const (
	ObjectCommunity      ObjectKind = "community"
	ObjectPost           ObjectKind = "post"
	ObjectComment        ObjectKind = "comment"
	ObjectPrivateMessage ObjectKind = "private_message"
)

// DeletableObject is the closed union over everything a Delete or Undo
// Delete can address. Exactly one variant is set, selected by Kind.
type DeletableObject struct {
	Kind           ObjectKind
	Community      *Community
	Post           *Post
	Comment        *Comment
	PrivateMessage *PrivateMessage
}

func (o DeletableObject) ID() string {
	switch o.Kind {
	case ObjectCommunity:
		return o.Community.ID
	case ObjectPost:
		return o.Post.ID
	case ObjectComment:
		return o.Comment.ID
	case ObjectPrivateMessage:
		return o.PrivateMessage.ID
	}
	return ""
}

// CommunityID returns the owning community's id, or false for objects
// without one (private messages).
func (o DeletableObject) CommunityID() (string, bool) {
	switch o.Kind {
	case ObjectCommunity:
		return o.Community.ID, true
	case ObjectPost:
		return o.Post.CommunityID, true
	case ObjectComment:
		return o.Comment.CommunityID, true
	}
	return "", false
}

// Deleted reports the author-delete flag of the underlying object.
func (o DeletableObject) Deleted() bool {
	switch o.Kind {
	case ObjectCommunity:
		return o.Community.Deleted
	case ObjectPost:
		return o.Post.Deleted
	case ObjectComment:
		return o.Comment.Deleted
	case ObjectPrivateMessage:
		return o.PrivateMessage.Deleted
	}
	return false
}

// Removed reports the moderator-removal flag. Private messages have no
// removal state.
func (o DeletableObject) Removed() bool {
	switch o.Kind {
	case ObjectCommunity:
		return o.Community.Removed
	case ObjectPost:
		return o.Post.Removed
	case ObjectComment:
		return o.Comment.Removed
	}
	return false
}

func (o DeletableObject) CreatorID() string {
	switch o.Kind {
	case ObjectPost:
		return o.Post.CreatorID
	case ObjectComment:
		return o.Comment.CreatorID
	case ObjectPrivateMessage:
		return o.PrivateMessage.CreatorID
	}
	return ""
}
