package models

import "time"

type Post struct {
	ID                string    `json:"id" gorm:"primaryKey;type:text"`
	CreatorID         string    `json:"creatorId" gorm:"type:text;index;not null"`
	CommunityID       string    `json:"communityId" gorm:"type:text;index;not null"`
	Deleted           bool      `json:"deleted" gorm:"type:boolean;not null;default:false"`
	Removed           bool      `json:"removed" gorm:"type:boolean;not null;default:false"`
	FeaturedCommunity bool      `json:"featuredCommunity" gorm:"type:boolean;not null;default:false"`
	CDate             time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Comment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	CreatorID   string    `json:"creatorId" gorm:"type:text;index;not null"`
	PostID      string    `json:"postId" gorm:"type:text;index;not null"`
	CommunityID string    `json:"communityId" gorm:"type:text;index;not null"`
	ParentID    *string   `json:"parentId" gorm:"type:text"`
	Deleted     bool      `json:"deleted" gorm:"type:boolean;not null;default:false"`
	Removed     bool      `json:"removed" gorm:"type:boolean;not null;default:false"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type PrivateMessage struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	CreatorID   string    `json:"creatorId" gorm:"type:text;index;not null"`
	RecipientID string    `json:"recipientId" gorm:"type:text;index;not null"`
	Deleted     bool      `json:"deleted" gorm:"type:boolean;not null;default:false"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
