package models

import (
	"time"
)

const (
	RoleAdmin   = "ADMIN"
	RoleCreator = "CREATOR"
	RoleUser    = "USER"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	Roles     []Role     `gorm:"many2many:user_roles" json:"roles"`
	Songs     []Song     `gorm:"foreignKey:CreatorID" json:"-"`
	Playlists []Playlist `gorm:"foreignKey:UserID" json:"-"`
}

// HasRole reports whether name is among the user's assigned roles.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
}

// ValidRole reports whether name is one of the three known role names.
func ValidRole(name string) bool {
	return name == RoleAdmin || name == RoleCreator || name == RoleUser
}

type RegisterRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Username string `form:"username" binding:"required,min=3"`
	Password string `form:"password" binding:"required,min=6"`
	Role     string `form:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Role     string `form:"role" binding:"required"`
}
