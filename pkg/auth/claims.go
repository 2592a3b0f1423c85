package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. The
// principal is either a user or a food partner, discriminated by Role.
type AccessTokenPayload struct {
	PrincipalID uuid.UUID
	Role        enums.ActorRole
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	PrincipalID uuid.UUID       `json:"principal_id"`
	Role        enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
