package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Username  string     `gorm:"size:150;not null;uniqueIndex"`
	Email     string     `gorm:"size:254;not null;uniqueIndex"`
	Password  string     `gorm:"size:255;not null"`
	FirstName string     `gorm:"size:150"`
	LastName  string     `gorm:"size:150"`
	Role      string     `gorm:"size:20;default:'customer';not null"`
	IsActive  bool       `gorm:"not null"`
	LastLogin *time.Time `gorm:"null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
