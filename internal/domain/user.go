package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
}
