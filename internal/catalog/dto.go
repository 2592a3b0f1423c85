package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/pkg/db/models"
)

// CreateFoodItemDTO carries the fields needed to publish a new reel.
type CreateFoodItemDTO struct {
	FoodPartnerID uuid.UUID
	Name          string
	Description   *string
	VideoURL      string
	PriceCents    int64
}

// ToModel converts the DTO into a persistable model.
func (d CreateFoodItemDTO) ToModel() *models.FoodItem {
	return &models.FoodItem{
		FoodPartnerID: d.FoodPartnerID,
		Name:          d.Name,
		Description:   d.Description,
		VideoURL:      d.VideoURL,
		PriceCents:    d.PriceCents,
	}
}

// InteractionFlags marks whether the requesting user has liked or saved a reel.
type InteractionFlags struct {
	Liked bool `json:"liked"`
	Saved bool `json:"saved"`
}

// FeedItemDTO is one annotated reel in the feed payload.
type FeedItemDTO struct {
	ID            uuid.UUID `json:"id"`
	FoodPartnerID uuid.UUID `json:"food_partner_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	VideoURL      string    `json:"video_url"`
	PriceCents    int64     `json:"price_cents"`
	LikeCount     int64     `json:"like_count"`
	SaveCount     int64     `json:"save_count"`
	CommentCount  int64     `json:"comment_count"`
	Liked         bool      `json:"liked"`
	Saved         bool      `json:"saved"`
	CreatedAt     time.Time `json:"created_at"`
}

// FeedPageDTO returns a cursor-paginated annotated feed view.
type FeedPageDTO struct {
	Items      []FeedItemDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func feedItemFromModel(item models.FoodItem, flags InteractionFlags) FeedItemDTO {
	return FeedItemDTO{
		ID:            item.ID,
		FoodPartnerID: item.FoodPartnerID,
		Name:          item.Name,
		Description:   item.Description,
		VideoURL:      item.VideoURL,
		PriceCents:    item.PriceCents,
		LikeCount:     item.LikeCount,
		SaveCount:     item.SaveCount,
		CommentCount:  item.CommentCount,
		Liked:         flags.Liked,
		Saved:         flags.Saved,
		CreatedAt:     item.CreatedAt,
	}
}
