package businesses

import (
	"time"

	"github.com/google/uuid"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
)

// BusinessDTO exposes the tenant profile in API responses.
type BusinessDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Website   *string   `json:"website,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeletedDTO reports what an admin delete removed.
type DeletedDTO struct {
	UserID        uuid.UUID `json:"user_id"`
	BusinessID    uuid.UUID `json:"business_id"`
	QuotesDeleted int64     `json:"quotes_deleted"`
	Deleted       bool      `json:"deleted"`
}

// ProfileInput is the editable business profile. Empty optional fields are
// stored as NULL.
type ProfileInput struct {
	Name    string
	Email   *string
	Phone   *string
	Website *string
	Address *string
}

// FromModel maps the persisted business into a DTO.
func FromModel(m *models.Business) *BusinessDTO {
	if m == nil {
		return nil
	}
	return &BusinessDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Website:   m.Website,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
