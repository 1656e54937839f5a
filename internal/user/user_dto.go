package user

import "go-otta/internal/domain"

type CreateUserRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role" binding:"required,oneof=EMPLOYEE HR"`
	Department string `json:"department" binding:"max=100"`
}

type StartSessionRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type UpdateThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Avatar     string `json:"avatar"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}

func mapToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		Department: u.Department,
		Avatar:     u.Avatar,
	}
}

func mapToListResponse(users []domain.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = mapToResponse(u)
	}
	return res
}
