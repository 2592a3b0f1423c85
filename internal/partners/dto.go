package partners

import (
	"github.com/reelbites/reelbites-backend/pkg/db/models"
)

// CreatePartnerDTO carries the fields needed to persist a new food partner.
type CreatePartnerDTO struct {
	Name         string
	ContactName  string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
}

// ToModel converts the DTO into a persistable model.
func (d CreatePartnerDTO) ToModel() *models.FoodPartner {
	return &models.FoodPartner{
		Name:         d.Name,
		ContactName:  d.ContactName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Phone:        d.Phone,
		Address:      d.Address,
	}
}
