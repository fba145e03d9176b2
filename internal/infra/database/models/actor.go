package models

import "time"

type Person struct {
	ID          string     `json:"id" gorm:"primaryKey;type:text"`
	Name        string     `json:"name" gorm:"type:text;not null"`
	Local       bool       `json:"local" gorm:"type:boolean;not null;default:false"`
	Admin       bool       `json:"admin" gorm:"type:boolean;not null;default:false"`
	Banned      bool       `json:"banned" gorm:"type:boolean;not null;default:false"`
	BanExpires  *time.Time `json:"banExpires" gorm:"type:timestamp with time zone"`
	Inbox       string     `json:"inbox" gorm:"type:text"`
	SharedInbox string     `json:"sharedInbox" gorm:"type:text"`
	FetchedAt   time.Time  `json:"fetchedAt" gorm:"type:timestamp with time zone"`
	CDate       time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Community struct {
	ID            string    `json:"id" gorm:"primaryKey;type:text"`
	Name          string    `json:"name" gorm:"type:text;not null"`
	Local         bool      `json:"local" gorm:"type:boolean;not null;default:false"`
	Deleted       bool      `json:"deleted" gorm:"type:boolean;not null;default:false"`
	Removed       bool      `json:"removed" gorm:"type:boolean;not null;default:false"`
	Inbox         string    `json:"inbox" gorm:"type:text"`
	SharedInbox   string    `json:"sharedInbox" gorm:"type:text"`
	FollowersURL  string    `json:"followersUrl" gorm:"type:text;index:community_followers_url,unique"`
	ModeratorsURL string    `json:"moderatorsUrl" gorm:"type:text;index:community_moderators_url,unique"`
	FeaturedURL   string    `json:"featuredUrl" gorm:"type:text;index:community_featured_url,unique"`
	FetchedAt     time.Time `json:"fetchedAt" gorm:"type:timestamp with time zone"`
	CDate         time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Instance struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	Local       bool      `json:"local" gorm:"type:boolean;not null;default:false"`
	Inbox       string    `json:"inbox" gorm:"type:text"`
	SharedInbox string    `json:"sharedInbox" gorm:"type:text"`
	FetchedAt   time.Time `json:"fetchedAt" gorm:"type:timestamp with time zone"`
}

// CommunityModerator rows are unique per community+person; the apply
// layer relies on the constraint to make moderator adds idempotent.
type CommunityModerator struct {
	CommunityID string    `json:"communityId" gorm:"type:text;primaryKey"`
	PersonID    string    `json:"personId" gorm:"type:text;primaryKey"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type CommunityFollower struct {
	CommunityID string    `json:"communityId" gorm:"type:text;primaryKey"`
	PersonID    string    `json:"personId" gorm:"type:text;primaryKey"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type PersonFollower struct {
	PersonID   string    `json:"personId" gorm:"type:text;primaryKey"`
	FollowerID string    `json:"followerId" gorm:"type:text;primaryKey"`
	CDate      time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type CommunityPersonBan struct {
	CommunityID string     `json:"communityId" gorm:"type:text;primaryKey"`
	PersonID    string     `json:"personId" gorm:"type:text;primaryKey"`
	Expires     *time.Time `json:"expires" gorm:"type:timestamp with time zone"`
	CDate       time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
