package dto

import (
	"time"

	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/service"
)

// CreateDiaryEntryRequest represents the request body for creating a diary entry.
type CreateDiaryEntryRequest struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PhotoURI         *string  `json:"photo_uri,omitempty" validate:"omitempty,max=2048"`
	Price            *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Rating           *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	FormattedAddress *string  `json:"formatted_address,omitempty" validate:"omitempty,max=500"`
	Journal          *string  `json:"journal,omitempty" validate:"omitempty,max=100"`
}

// ToInput converts the request to service input.
func (r *CreateDiaryEntryRequest) ToInput() service.DiaryEntryInput {
	title := r.Title
	return service.DiaryEntryInput{
		Title:            &title,
		Description:      r.Description,
		PhotoURI:         r.PhotoURI,
		Price:            r.Price,
		Rating:           r.Rating,
		FormattedAddress: r.FormattedAddress,
		Journal:          r.Journal,
	}
}

// UpdateDiaryEntryRequest represents a partial update. Absent fields are left unchanged.
type UpdateDiaryEntryRequest struct {
	Title            *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PhotoURI         *string  `json:"photo_uri,omitempty" validate:"omitempty,max=2048"`
	Price            *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Rating           *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	FormattedAddress *string  `json:"formatted_address,omitempty" validate:"omitempty,max=500"`
	Journal          *string  `json:"journal,omitempty" validate:"omitempty,max=100"`
}

// ToInput converts the request to service input.
func (r *UpdateDiaryEntryRequest) ToInput() service.DiaryEntryInput {
	return service.DiaryEntryInput{
		Title:            r.Title,
		Description:      r.Description,
		PhotoURI:         r.PhotoURI,
		Price:            r.Price,
		Rating:           r.Rating,
		FormattedAddress: r.FormattedAddress,
		Journal:          r.Journal,
	}
}

// DiaryEntryResponse represents a diary entry in API responses.
type DiaryEntryResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description"`
	PhotoURI         *string   `json:"photo_uri"`
	Price            float64   `json:"price"`
	Rating           float64   `json:"rating"`
	FormattedAddress *string   `json:"formatted_address"`
	Journal          *string   `json:"journal"`
	UserID           string    `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// DiaryEntryPageResponse is one page of the cross-owner listing.
type DiaryEntryPageResponse struct {
	Data  []DiaryEntryResponse `json:"data"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ToDiaryEntryResponse converts a DiaryEntry model to DiaryEntryResponse DTO.
func ToDiaryEntryResponse(entry *model.DiaryEntry) *DiaryEntryResponse {
	return &DiaryEntryResponse{
		ID:               entry.ID,
		Title:            entry.Title,
		Description:      entry.Description,
		PhotoURI:         entry.PhotoURI,
		Price:            entry.Price,
		Rating:           entry.Rating,
		FormattedAddress: entry.FormattedAddress,
		Journal:          entry.Journal,
		UserID:           entry.UserID,
		CreatedAt:        entry.CreatedAt,
	}
}

// ToDiaryEntryList converts a slice of DiaryEntry models. Never returns nil.
func ToDiaryEntryList(entries []*model.DiaryEntry) []DiaryEntryResponse {
	responses := make([]DiaryEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = *ToDiaryEntryResponse(entry)
	}
	return responses
}

// ToDiaryEntryPageResponse converts a service page.
func ToDiaryEntryPageResponse(page *service.Page) *DiaryEntryPageResponse {
	return &DiaryEntryPageResponse{
		Data:  ToDiaryEntryList(page.Entries),
		Page:  page.Page,
		Limit: page.Limit,
	}
}
