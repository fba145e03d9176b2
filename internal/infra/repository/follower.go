package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stanionascu/lemmy/internal/infra/database/models"
)

// FollowerRepository reads the follower relations used for fan-out.
// It is read-only from the federation engine's perspective.
type FollowerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) *FollowerRepository {
	return &FollowerRepository{db: db}
}

func (r *FollowerRepository) CommunityFollowerInboxes(ctx context.Context, communityID string) ([]string, error) {
	var rows []models.Person
	err := r.db.WithContext(ctx).
		Joins("JOIN community_followers ON community_followers.person_id = people.id").
		Where("community_followers.community_id = ? AND people.local = false", communityID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return inboxes(rows), nil
}

func (r *FollowerRepository) PersonFollowerInboxes(ctx context.Context, personID string) ([]string, error) {
	var rows []models.Person
	err := r.db.WithContext(ctx).
		Joins("JOIN person_followers ON person_followers.follower_id = people.id").
		Where("person_followers.person_id = ? AND people.local = false", personID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return inboxes(rows), nil
}

// RemoteInstanceInboxes lists the shared inbox of every known remote
// instance, the recipient set for site-wide moderation activities.
func (r *FollowerRepository) RemoteInstanceInboxes(ctx context.Context) ([]string, error) {
	var rows []models.Instance
	err := r.db.WithContext(ctx).
		Where("local = false").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rows))
	var result []string
	for _, row := range rows {
		inbox := row.SharedInbox
		if inbox == "" {
			inbox = row.Inbox
		}
		if inbox == "" {
			continue
		}
		if _, ok := seen[inbox]; ok {
			continue
		}
		seen[inbox] = struct{}{}
		result = append(result, inbox)
	}
	return result, nil
}

func inboxes(rows []models.Person) []string {
	seen := make(map[string]struct{}, len(rows))
	var result []string
	for _, row := range rows {
		inbox := row.SharedInbox
		if inbox == "" {
			inbox = row.Inbox
		}
		if inbox == "" {
			continue
		}
		if _, ok := seen[inbox]; ok {
			continue
		}
		seen[inbox] = struct{}{}
		result = append(result, inbox)
	}
	return result
}
