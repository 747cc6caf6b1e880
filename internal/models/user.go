package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"size:150;not null" json:"username"`
	FirstName    string         `gorm:"size:150" json:"first_name"`
	LastName     string         `gorm:"size:150" json:"last_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	IsAdmin      bool           `gorm:"not null;default:false" json:"-"`
}

// Subscription is a follower -> author edge. The unique pair index, not the
// application, is the arbiter for duplicate subscriptions.
type Subscription struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_subscription_pair" json:"follower_id"`
	AuthorID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair" json:"author_id"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
