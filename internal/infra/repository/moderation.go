package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stanionascu/lemmy/internal/domain"
	"github.com/stanionascu/lemmy/internal/infra/database/models"
)

// ModerationRepository owns bans, the moderator roster and the mod
// log. Roster inserts go through a uniqueness constraint; a conflict
// is reported as "not added" rather than an error.
type ModerationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

func (r *ModerationRepository) SetPersonBanned(ctx context.Context, personID string, banned bool, expires *time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Person{}).
		Where("id = ?", personID).
		Updates(map[string]any{"banned": banned, "ban_expires": expires}).Error
}

func (r *ModerationRepository) UpsertCommunityBan(ctx context.Context, communityID, personID string, expires *time.Time) error {
	row := models.CommunityPersonBan{
		CommunityID: communityID,
		PersonID:    personID,
		Expires:     expires,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "person_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"expires"}),
	}).Create(&row).Error
}

func (r *ModerationRepository) DeleteCommunityBan(ctx context.Context, communityID, personID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.CommunityPersonBan{}, "community_id = ? AND person_id = ?", communityID, personID).Error
}

func (r *ModerationRepository) IsBannedFromCommunity(ctx context.Context, communityID, personID string) (bool, error) {
	var row models.CommunityPersonBan
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND person_id = ?", communityID, personID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if row.Expires != nil && row.Expires.Before(time.Now().UTC()) {
		return false, nil
	}
	return true, nil
}

// Unfollow drops the community membership of a banned person.
func (r *ModerationRepository) Unfollow(ctx context.Context, communityID, personID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.CommunityFollower{}, "community_id = ? AND person_id = ?", communityID, personID).Error
}

// AddModerator inserts a roster row. The second return value is false
// when the person already held the role; the conflict is swallowed so
// concurrent or repeated applies converge on one row.
func (r *ModerationRepository) AddModerator(ctx context.Context, communityID, personID string) (bool, error) {
	row := models.CommunityModerator{
		CommunityID: communityID,
		PersonID:    personID,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "person_id"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ModerationRepository) RemoveModerator(ctx context.Context, communityID, personID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.CommunityModerator{}, "community_id = ? AND person_id = ?", communityID, personID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ModerationRepository) IsModerator(ctx context.Context, communityID, personID string) (bool, error) {
	var row models.CommunityModerator
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND person_id = ?", communityID, personID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ModerationRepository) CreateModLog(ctx context.Context, entry domain.ModLogEntry) error {
	row := models.ModLog{
		Action:      string(entry.Action),
		ModeratorID: entry.ModeratorID,
		TargetID:    entry.TargetID,
		CommunityID: entry.CommunityID,
		Reason:      entry.Reason,
		Expires:     entry.Expires,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// RemovePersonContent marks all of a person's posts and comments as
// removed, optionally scoped to one community. Used by the ban
// cascade.
func (r *ModerationRepository) RemovePersonContent(ctx context.Context, personID string, communityID *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := tx.Model(&models.Post{}).Where("creator_id = ?", personID)
		comments := tx.Model(&models.Comment{}).Where("creator_id = ?", personID)
		if communityID != nil {
			posts = posts.Where("community_id = ?", *communityID)
			comments = comments.Where("community_id = ?", *communityID)
		}
		if err := posts.Update("removed", true).Error; err != nil {
			return err
		}
		return comments.Update("removed", true).Error
	})
}
