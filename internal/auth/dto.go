package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
	"github.com/reelbites/reelbites-backend/pkg/enums"
)

// RegisterUserDTO carries a buyer-side signup request.
type RegisterUserDTO struct {
	FullName string
	Email    string
	Password string
}

// RegisterPartnerDTO carries a restaurant-side signup request.
type RegisterPartnerDTO struct {
	Name        string
	ContactName string
	Email       string
	Password    string
	Phone       string
	Address     string
}

// TokenPairDTO is the credential pair handed out on login, signup, and refresh.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// PrincipalDTO is the public projection of the authenticated account.
type PrincipalDTO struct {
	ID        uuid.UUID       `json:"id"`
	Role      enums.ActorRole `json:"role"`
	FullName  string          `json:"full_name,omitempty"`
	Name      string          `json:"name,omitempty"`
	Email     string          `json:"email"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuthResultDTO bundles the principal with its freshly minted tokens.
type AuthResultDTO struct {
	Principal PrincipalDTO `json:"principal"`
	Tokens    TokenPairDTO `json:"tokens"`
}

func principalFromUser(user *models.User) PrincipalDTO {
	return PrincipalDTO{
		ID:        user.ID,
		Role:      enums.ActorRoleUser,
		FullName:  user.FullName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func principalFromPartner(partner *models.FoodPartner) PrincipalDTO {
	return PrincipalDTO{
		ID:        partner.ID,
		Role:      enums.ActorRolePartner,
		Name:      partner.Name,
		Email:     partner.Email,
		CreatedAt: partner.CreatedAt,
	}
}
