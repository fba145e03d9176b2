package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stanionascu/lemmy/internal/domain"
	"github.com/stanionascu/lemmy/internal/infra/database/models"
)

// ActorRepository is the local cache of actors, both this instance's
// own and remote ones discovered through resolution. Cache entries are
// refreshed in place, never deleted while referenced.
type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) GetByID(ctx context.Context, id string) (domain.Actor, error) {

	var person models.Person
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&person).Error
	if err == nil {
		return personActor(person), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Actor{}, err
	}

	var community models.Community
	err = r.db.WithContext(ctx).Where("id = ?", id).Take(&community).Error
	if err == nil {
		return communityActor(community), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Actor{}, err
	}

	var instance models.Instance
	err = r.db.WithContext(ctx).Where("id = ?", id).Take(&instance).Error
	if err == nil {
		return instanceActor(instance), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Actor{}, err
	}

	return domain.Actor{}, domain.NotFoundError{Resource: "actor"}
}

// Upsert inserts or refreshes a cache entry keyed by identity URL.
// Concurrent resolutions of the same identity land on the conflict
// branch instead of creating duplicates.
func (r *ActorRepository) Upsert(ctx context.Context, actor domain.Actor) error {
	switch actor.Kind {
	case domain.ActorPerson:
		p := actor.Person
		row := models.Person{
			ID:          p.ID,
			Name:        p.Name,
			Local:       p.Local,
			Inbox:       p.Inbox,
			SharedInbox: p.SharedInbox,
			FetchedAt:   p.FetchedAt,
		}
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "inbox", "shared_inbox", "fetched_at"}),
		}).Create(&row).Error
	case domain.ActorCommunity:
		c := actor.Community
		row := models.Community{
			ID:            c.ID,
			Name:          c.Name,
			Local:         c.Local,
			Inbox:         c.Inbox,
			SharedInbox:   c.SharedInbox,
			FollowersURL:  c.FollowersURL,
			ModeratorsURL: c.ModeratorsURL,
			FeaturedURL:   c.FeaturedURL,
			FetchedAt:     c.FetchedAt,
		}
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "inbox", "shared_inbox", "followers_url", "moderators_url", "featured_url", "fetched_at"}),
		}).Create(&row).Error
	case domain.ActorInstance:
		i := actor.Instance
		row := models.Instance{
			ID:          i.ID,
			Local:       i.Local,
			Inbox:       i.Inbox,
			SharedInbox: i.SharedInbox,
			FetchedAt:   i.FetchedAt,
		}
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"inbox", "shared_inbox", "fetched_at"}),
		}).Create(&row).Error
	}
	return errors.New("unknown actor kind")
}

func (r *ActorRepository) IsLocalAdmin(ctx context.Context, personID string) (bool, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Where("id = ?", personID).Take(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return person.Local && person.Admin, nil
}

func (r *ActorRepository) LocalPersonByName(ctx context.Context, name string) (*domain.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Where("name = ? AND local = true", name).Take(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError{Resource: "person"}
	}
	if err != nil {
		return nil, err
	}
	p := personActor(person)
	return p.Person, nil
}

func (r *ActorRepository) LocalCommunityByName(ctx context.Context, name string) (*domain.Community, error) {
	var community models.Community
	err := r.db.WithContext(ctx).Where("name = ? AND local = true", name).Take(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError{Resource: "community"}
	}
	if err != nil {
		return nil, err
	}
	c := communityActor(community)
	return c.Community, nil
}

func personActor(row models.Person) domain.Actor {
	return domain.Actor{
		Kind: domain.ActorPerson,
		Person: &domain.Person{
			ID:          row.ID,
			Name:        row.Name,
			Local:       row.Local,
			Admin:       row.Admin,
			Banned:      row.Banned,
			BanExpires:  row.BanExpires,
			Inbox:       row.Inbox,
			SharedInbox: row.SharedInbox,
			FetchedAt:   row.FetchedAt,
		},
	}
}

func communityActor(row models.Community) domain.Actor {
	return domain.Actor{
		Kind: domain.ActorCommunity,
		Community: &domain.Community{
			ID:            row.ID,
			Name:          row.Name,
			Local:         row.Local,
			Deleted:       row.Deleted,
			Removed:       row.Removed,
			Inbox:         row.Inbox,
			SharedInbox:   row.SharedInbox,
			FollowersURL:  row.FollowersURL,
			ModeratorsURL: row.ModeratorsURL,
			FeaturedURL:   row.FeaturedURL,
			FetchedAt:     row.FetchedAt,
		},
	}
}

func instanceActor(row models.Instance) domain.Actor {
	return domain.Actor{
		Kind: domain.ActorInstance,
		Instance: &domain.Instance{
			ID:          row.ID,
			Local:       row.Local,
			Inbox:       row.Inbox,
			SharedInbox: row.SharedInbox,
			FetchedAt:   row.FetchedAt,
		},
	}
}

func (r *ActorRepository) CountCommunityFollowers(ctx context.Context, communityID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommunityFollower{}).
		Where("community_id = ?", communityID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
