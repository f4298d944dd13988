package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/http/dto"
	"claimcountdown.app/server/internal/service"
)

type InviteHandler struct {
	inviteService service.InviteService
}

func NewInviteHandler(inviteService service.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// Create issues an invite (owner only).
func (h *InviteHandler) Create(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	created, err := h.inviteService.Create(c.Request.Context(), identity, req.Email)
	if err != nil {
		respondError(c, err, "create invite")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateInviteResponse(created))
}

// Validate previews an invite token. Public.
func (h *InviteHandler) Validate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		badRequest(c, "token is required")
		return
	}

	preview, err := h.inviteService.Validate(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "validate invite")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitePreviewResponse(preview))
}

// Accept redeems an invite and signs the new member in. Public.
func (h *InviteHandler) Accept(c *gin.Context) {
	var req dto.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Token == "" || req.Password == "" {
		badRequest(c, "token and password are required")
		return
	}

	session, err := h.inviteService.Accept(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		respondError(c, err, "accept invite")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *InviteHandler) List(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	invites, err := h.inviteService.List(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "list invites")
		return
	}

	c.JSON(http.StatusOK, dto.ToListInvitesResponse(invites))
}

func (h *InviteHandler) Members(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	members, err := h.inviteService.ListMembers(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "list members")
		return
	}

	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}
