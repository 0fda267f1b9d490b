package admin

import (
	"time"

	"localstay/internal/domain"
)

type OwnerResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type StatusResponse struct {
	Message string        `json:"message"`
	Owner   OwnerResponse `json:"owner"`
}

func toOwnerResponse(o domain.Owner) OwnerResponse {
	return OwnerResponse{
		ID:          o.ID,
		Email:       o.Email,
		Name:        o.Name,
		PhoneNumber: o.PhoneNumber,
		IsVerified:  o.IsVerified,
		CreatedAt:   o.CreatedAt,
	}
}

func toOwnerResponses(list []domain.Owner) []OwnerResponse {
	out := make([]OwnerResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOwnerResponse(o))
	}
	return out
}

func toUserResponses(list []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, UserResponse{
			ID:          u.ID,
			Email:       u.Email,
			Name:        u.Name,
			PhoneNumber: u.PhoneNumber,
			CreatedAt:   u.CreatedAt,
		})
	}
	return out
}
