package users

import (
	"github.com/reelbites/reelbites-backend/pkg/db/models"
)

// CreateUserDTO carries the fields needed to persist a new user.
type CreateUserDTO struct {
	FullName     string
	Email        string
	PasswordHash string
}

// ToModel converts the DTO into a persistable model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		FullName:     d.FullName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
	}
}
