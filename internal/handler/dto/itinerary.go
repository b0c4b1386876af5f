package dto

import (
	"time"

	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/service"
)

// CreateItineraryRequest represents the request body for creating an itinerary.
type CreateItineraryRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

// ToInput converts the request to service input.
func (r *CreateItineraryRequest) ToInput() service.ItineraryInput {
	title, description := r.Title, r.Description
	return service.ItineraryInput{Title: &title, Description: &description}
}

// UpdateItineraryRequest represents a partial itinerary update.
type UpdateItineraryRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// ToInput converts the request to service input.
func (r *UpdateItineraryRequest) ToInput() service.ItineraryInput {
	return service.ItineraryInput{Title: r.Title, Description: r.Description}
}

// CreateLocationRequest represents the request body for adding a location.
type CreateLocationRequest struct {
	PhotoURI         string `json:"photo_uri" validate:"max=2048"`
	Title            string `json:"title" validate:"required,max=200"`
	Description      string `json:"description" validate:"max=5000"`
	FormattedAddress string `json:"formatted_address" validate:"max=500"`
}

// ToInput converts the request to service input.
func (r *CreateLocationRequest) ToInput() service.LocationInput {
	photoURI, title, description, address := r.PhotoURI, r.Title, r.Description, r.FormattedAddress
	return service.LocationInput{
		PhotoURI:         &photoURI,
		Title:            &title,
		Description:      &description,
		FormattedAddress: &address,
	}
}

// UpdateLocationRequest represents a partial location update.
type UpdateLocationRequest struct {
	PhotoURI         *string `json:"photo_uri,omitempty" validate:"omitempty,max=2048"`
	Title            *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	FormattedAddress *string `json:"formatted_address,omitempty" validate:"omitempty,max=500"`
}

// ToInput converts the request to service input.
func (r *UpdateLocationRequest) ToInput() service.LocationInput {
	return service.LocationInput{
		PhotoURI:         r.PhotoURI,
		Title:            r.Title,
		Description:      r.Description,
		FormattedAddress: r.FormattedAddress,
	}
}

// LocationResponse represents a location in API responses.
type LocationResponse struct {
	ID               string    `json:"id"`
	PhotoURI         string    `json:"photo_uri"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	FormattedAddress string    `json:"formatted_address"`
	ItineraryID      string    `json:"itinerary_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// ItineraryResponse represents an itinerary with its locations.
type ItineraryResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	UserID      string             `json:"user_id"`
	Locations   []LocationResponse `json:"locations"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ToLocationResponse converts a Location model to LocationResponse DTO.
func ToLocationResponse(location *model.Location) *LocationResponse {
	return &LocationResponse{
		ID:               location.ID,
		PhotoURI:         location.PhotoURI,
		Title:            location.Title,
		Description:      location.Description,
		FormattedAddress: location.FormattedAddress,
		ItineraryID:      location.ItineraryID,
		CreatedAt:        location.CreatedAt,
	}
}

// ToItineraryResponse converts an Itinerary model to ItineraryResponse DTO.
func ToItineraryResponse(itinerary *model.Itinerary) *ItineraryResponse {
	locations := make([]LocationResponse, len(itinerary.Locations))
	for i, location := range itinerary.Locations {
		locations[i] = *ToLocationResponse(location)
	}
	return &ItineraryResponse{
		ID:          itinerary.ID,
		Title:       itinerary.Title,
		Description: itinerary.Description,
		UserID:      itinerary.UserID,
		Locations:   locations,
		CreatedAt:   itinerary.CreatedAt,
		UpdatedAt:   itinerary.UpdatedAt,
	}
}

// ToItineraryList converts a slice of Itinerary models. Never returns nil.
func ToItineraryList(itineraries []*model.Itinerary) []ItineraryResponse {
	responses := make([]ItineraryResponse, len(itineraries))
	for i, itinerary := range itineraries {
		responses[i] = *ToItineraryResponse(itinerary)
	}
	return responses
}
