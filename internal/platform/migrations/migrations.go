package migrations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Run applies the schema for the users bounded context. Intended to replace
// adapter-level automigrate in deployments that manage schema centrally.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&userRecord{})
}

// User schema mirrors the users Postgres adapter.
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
