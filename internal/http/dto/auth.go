package dto

import (
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organization_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID               int64      `json:"id,string"`
	Email            string     `json:"email"`
	OrganizationID   int64      `json:"organization_id,string"`
	OrganizationName string     `json:"organization_name"`
	Role             model.Role `json:"role"`
}

type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func ToUserResponse(u *service.UserView) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		OrganizationID:   u.OrganizationID,
		OrganizationName: u.OrganizationName,
		Role:             u.Role,
	}
}

func ToSessionResponse(s *service.Session) SessionResponse {
	return SessionResponse{
		Token: s.Token,
		User:  ToUserResponse(&s.User),
	}
}
