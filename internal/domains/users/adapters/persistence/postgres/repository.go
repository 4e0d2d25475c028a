package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-user-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-user-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&userRecord{})
	}
	return repo
}

type userRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Seq       int64     `gorm:"column:seq;autoIncrement;uniqueIndex"`
	Login     string    `gorm:"column:login"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// FindByID fetches a user by identifier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Insert stores the entity under a freshly generated identifier.
func (r *Repository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := *user
	clone.ID = uuid.New()
	record := toRecord(&clone)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &clone, nil
}

// Update replaces the stored fields of an existing entity.
func (r *Repository) Update(ctx context.Context, user *domain.User) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}
	result := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"login":      user.Login,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Upsert inserts or replaces the entity keyed by its identifier.
func (r *Repository) Upsert(ctx context.Context, user *domain.User) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	if user == nil {
		return false, errors.New("user is nil")
	}
	inserted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&userRecord{}).
			Where("id = ?", user.ID).
			Updates(map[string]any{
				"login":      user.Login,
				"first_name": user.FirstName,
				"last_name":  user.LastName,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		inserted = true
		record := toRecord(user)
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Delete removes a user; absence is a silent no-op.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&userRecord{}).Error
}

// GetPage enumerates users in insertion order.
func (r *Repository) GetPage(ctx context.Context, pageNumber, pageSize int) (pagination.Page[domain.User], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[domain.User]{}, err
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Count(&total).Error; err != nil {
		return pagination.Page[domain.User]{}, err
	}
	var records []userRecord
	if err := r.db.WithContext(ctx).
		Order("seq").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return pagination.Page[domain.User]{}, err
	}
	users := make([]domain.User, 0, len(records))
	for i := range records {
		users = append(users, *records[i].toDomain())
	}
	return pagination.New(users, int(total), pageNumber, pageSize), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	return userRecord{
		ID:        user.ID,
		Login:     user.Login,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Login:     r.Login,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}
