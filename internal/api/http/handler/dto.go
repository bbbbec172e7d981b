package handler

import (
	"github.com/accountd/accountd/internal/model"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// updateProfileRequest accepts only self-service fields. Email, password
// and role sent by a tampering client simply have nowhere to decode into
// and are dropped.
type updateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Username *string `json:"username" validate:"omitempty,min=3"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type userResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
}

type pageMeta struct {
	TotalItems   int64 `json:"totalItems"`
	ItemCount    int   `json:"itemCount"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
}

type pageResponse struct {
	Items []userResponse `json:"items"`
	Meta  pageMeta       `json:"meta"`
}

func toUserResponse(user model.User) userResponse {
	return userResponse{
		ID:           user.ID,
		Name:         user.Name,
		Username:     user.Username,
		Email:        user.Email,
		Role:         string(user.Role),
		ProfileImage: user.ProfileImage,
	}
}

func toUserResponses(users []model.User) []userResponse {
	responses := make([]userResponse, len(users))
	for i, user := range users {
		responses[i] = toUserResponse(user)
	}
	return responses
}

func toPageResponse(page model.Page) pageResponse {
	return pageResponse{
		Items: toUserResponses(page.Items),
		Meta: pageMeta{
			TotalItems:   page.TotalItems,
			ItemCount:    page.ItemCount,
			ItemsPerPage: page.ItemsPerPage,
			TotalPages:   page.TotalPages,
			CurrentPage:  page.CurrentPage,
		},
	}
}
