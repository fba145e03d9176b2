package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stanionascu/lemmy/internal/domain"
	"github.com/stanionascu/lemmy/internal/infra/database/models"
)

// ObjectRepository reads and mutates the content objects a Delete or
// collection activity can address. Lookups are by identifier URL
// against local storage only.
type ObjectRepository struct {
	db *gorm.DB
}

func NewObjectRepository(db *gorm.DB) *ObjectRepository {
	return &ObjectRepository{db: db}
}

func (r *ObjectRepository) CommunityByID(ctx context.Context, id string) (*domain.Community, error) {
	var row models.Community
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError{Resource: "community"}
	}
	if err != nil {
		return nil, err
	}
	c := communityActor(row)
	return c.Community, nil
}

func (r *ObjectRepository) PostByID(ctx context.Context, id string) (*domain.Post, error) {
	var row models.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError{Resource: "post"}
	}
	if err != nil {
		return nil, err
	}
	return &domain.Post{
		ID:                row.ID,
		CreatorID:         row.CreatorID,
		CommunityID:       row.CommunityID,
		Deleted:           row.Deleted,
		Removed:           row.Removed,
		FeaturedCommunity: row.FeaturedCommunity,
	}, nil
}

func (r *ObjectRepository) CommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	var row models.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError{Resource: "comment"}
	}
	if err != nil {
		return nil, err
	}
	return &domain.Comment{
		ID:          row.ID,
		CreatorID:   row.CreatorID,
		PostID:      row.PostID,
		CommunityID: row.CommunityID,
		ParentID:    row.ParentID,
		Deleted:     row.Deleted,
		Removed:     row.Removed,
	}, nil
}

func (r *ObjectRepository) PrivateMessageByID(ctx context.Context, id string) (*domain.PrivateMessage, error) {
	var row models.PrivateMessage
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError{Resource: "private message"}
	}
	if err != nil {
		return nil, err
	}
	return &domain.PrivateMessage{
		ID:          row.ID,
		CreatorID:   row.CreatorID,
		RecipientID: row.RecipientID,
		Deleted:     row.Deleted,
	}, nil
}

// CommunityByCollectionURL maps a moderators or featured collection URL
// back to its community.
func (r *ObjectRepository) CommunityByCollectionURL(ctx context.Context, url string) (*domain.Community, domain.CollectionType, error) {
	var row models.Community
	err := r.db.WithContext(ctx).
		Where("moderators_url = ? OR featured_url = ?", url, url).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, domain.NotFoundError{Resource: "collection"}
	}
	if err != nil {
		return nil, 0, err
	}
	collection := domain.CollectionModerators
	if row.FeaturedURL == url {
		collection = domain.CollectionFeatured
	}
	c := communityActor(row)
	return c.Community, collection, nil
}

func (r *ObjectRepository) SetCommunityDeleted(ctx context.Context, id string, deleted bool) error {
	return r.db.WithContext(ctx).Model(&models.Community{}).
		Where("id = ?", id).
		Update("deleted", deleted).Error
}

func (r *ObjectRepository) SetCommunityRemoved(ctx context.Context, id string, removed bool) error {
	return r.db.WithContext(ctx).Model(&models.Community{}).
		Where("id = ?", id).
		Update("removed", removed).Error
}

func (r *ObjectRepository) SetPostDeleted(ctx context.Context, id string, deleted bool) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("deleted", deleted).Error
}

func (r *ObjectRepository) SetPostRemoved(ctx context.Context, id string, removed bool) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("removed", removed).Error
}

func (r *ObjectRepository) SetPostFeatured(ctx context.Context, id string, featured bool) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("featured_community", featured).Error
}

func (r *ObjectRepository) SetCommentDeleted(ctx context.Context, id string, deleted bool) error {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("deleted", deleted).Error
}

func (r *ObjectRepository) SetCommentRemoved(ctx context.Context, id string, removed bool) error {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("removed", removed).Error
}

func (r *ObjectRepository) SetPrivateMessageDeleted(ctx context.Context, id string, deleted bool) error {
	return r.db.WithContext(ctx).Model(&models.PrivateMessage{}).
		Where("id = ?", id).
		Update("deleted", deleted).Error
}
