package models

import "time"

// ModLog is the append-only audit trail of moderation actions.
// CommunityID is empty for instance-scoped entries.
type ModLog struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Action      string     `json:"action" gorm:"type:text;not null;index"`
	ModeratorID string     `json:"moderatorId" gorm:"type:text;not null;index"`
	TargetID    string     `json:"targetId" gorm:"type:text;not null;index"`
	CommunityID *string    `json:"communityId" gorm:"type:text;index"`
	Reason      *string    `json:"reason" gorm:"type:text"`
	Expires     *time.Time `json:"expires" gorm:"type:timestamp with time zone"`
	CDate       time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
