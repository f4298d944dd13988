package dto

import (
	"time"

	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

type CreateInviteRequest struct {
	Email string `json:"email"`
}

type CreateInviteResponse struct {
	Message    string    `json:"message"`
	ID         int64     `json:"id,string"`
	Email      string    `json:"email"`
	InviteLink string    `json:"invite_link"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type AcceptInviteRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type InvitePreviewResponse struct {
	Email            string    `json:"email"`
	OrganizationName string    `json:"organization_name"`
	ExpiresAt        time.Time `json:"expires_at"`
}

type InviteResponse struct {
	ID        int64              `json:"id,string"`
	Email     string             `json:"email"`
	Status    model.InviteStatus `json:"status"`
	Expired   bool               `json:"expired"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
}

type ListInvitesResponse struct {
	Invites []InviteResponse `json:"invites"`
}

type MemberResponse struct {
	ID        int64      `json:"id,string"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

func ToCreateInviteResponse(c *service.CreatedInvite) CreateInviteResponse {
	return CreateInviteResponse{
		Message:    "Invite created successfully",
		ID:         c.Invite.ID,
		Email:      c.Invite.Email,
		InviteLink: c.Link,
		ExpiresAt:  c.Invite.ExpiresAt,
	}
}

func ToInvitePreviewResponse(p *service.InvitePreview) InvitePreviewResponse {
	return InvitePreviewResponse{
		Email:            p.Email,
		OrganizationName: p.OrganizationName,
		ExpiresAt:        p.ExpiresAt,
	}
}

func ToListInvitesResponse(invites []service.InviteSummary) ListInvitesResponse {
	resp := ListInvitesResponse{Invites: make([]InviteResponse, len(invites))}
	for i, inv := range invites {
		resp.Invites[i] = InviteResponse{
			ID:        inv.ID,
			Email:     inv.Email,
			Status:    inv.Status,
			Expired:   inv.Expired,
			CreatedAt: inv.CreatedAt,
			ExpiresAt: inv.ExpiresAt,
		}
	}
	return resp
}

func ToListMembersResponse(users []model.User) ListMembersResponse {
	resp := ListMembersResponse{Members: make([]MemberResponse, len(users))}
	for i, u := range users {
		resp.Members[i] = MemberResponse{
			ID:        u.ID,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		}
	}
	return resp
}
