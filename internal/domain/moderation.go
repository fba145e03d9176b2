package domain

import "time"

type ModLogAction string

const (
	ModLogBan           ModLogAction = "ban"
	ModLogUnban         ModLogAction = "unban"
	ModLogAddModerator  ModLogAction = "add_moderator"
	ModLogRemoveMod     ModLogAction = "remove_moderator"
	ModLogRemoveContent ModLogAction = "remove_content"
	ModLogRestore       ModLogAction = "restore_content"
)

// ModLogEntry is one append-only audit record. CommunityID is nil for
// instance-scoped actions.
type ModLogEntry struct {
	Action      ModLogAction `json:"action"`
	ModeratorID string       `json:"moderatorId"`
	TargetID    string       `json:"targetId"`
	CommunityID *string      `json:"communityId,omitempty"`
	Reason      *string      `json:"reason,omitempty"`
	Expires     *time.Time   `json:"expires,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// CollectionType distinguishes the two community collections an Add or
// Remove activity can target.
type CollectionType int

const (
	CollectionModerators CollectionType = iota
	CollectionFeatured
)

// Event is a local update notification pushed to connected sessions
// after the apply layer mutates state.
type Event struct {
	Type     string `json:"type"`
	ObjectID string `json:"objectId"`
}
