package stay

import (
	"time"

	"localstay/internal/domain"
)

type CreateStayRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Location      string   `json:"location" validate:"required,max=200"`
	PricePerNight int      `json:"price_per_night" validate:"gte=0"`
	Facilities    []string `json:"facilities" validate:"omitempty,dive,required,max=100"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
}

// UpdateStayRequest is a partial update: nil fields are left alone.
type UpdateStayRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string   `json:"description" validate:"omitempty,max=5000"`
	Location      *string   `json:"location" validate:"omitempty,min=1,max=200"`
	PricePerNight *int      `json:"price_per_night" validate:"omitempty,gte=0"`
	Facilities    *[]string `json:"facilities" validate:"omitempty,dive,required,max=100"`
	ImageURL      *string   `json:"image_url" validate:"omitempty,url"`
	Images        *[]string `json:"images" validate:"omitempty,dive,url"`
	IsActive      *bool     `json:"is_active"`
}

func (r UpdateStayRequest) apply(s *domain.Stay) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Location != nil {
		s.Location = *r.Location
	}
	if r.PricePerNight != nil {
		s.PricePerNight = *r.PricePerNight
	}
	if r.Facilities != nil {
		s.Facilities = *r.Facilities
	}
	if r.ImageURL != nil {
		s.ImageURL = *r.ImageURL
	}
	if r.Images != nil {
		s.Images = *r.Images
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}

type OwnerResponse struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type StayResponse struct {
	ID            int64          `json:"id"`
	OwnerID       int64          `json:"owner_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Location      string         `json:"location"`
	PricePerNight int            `json:"price_per_night"`
	Facilities    []string       `json:"facilities"`
	ImageURL      string         `json:"image_url,omitempty"`
	Images        []string       `json:"images"`
	IsActive      bool           `json:"is_active"`
	Bookable      bool           `json:"bookable"`
	Owner         *OwnerResponse `json:"owner,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func fromStay(s *domain.Stay) StayResponse {
	return StayResponse{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		Name:          s.Name,
		Description:   s.Description,
		Location:      s.Location,
		PricePerNight: s.PricePerNight,
		Facilities:    nonNil(s.Facilities),
		ImageURL:      s.ImageURL,
		Images:        nonNil(s.Images),
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func fromDetails(d *domain.StayDetails) StayResponse {
	resp := fromStay(&d.Stay)
	resp.Bookable = d.Bookable()
	resp.Owner = &OwnerResponse{Name: d.Owner.Name, PhoneNumber: d.Owner.PhoneNumber}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
