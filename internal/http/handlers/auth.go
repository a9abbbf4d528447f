package handlers

import (
	"errors"
	"net/http"

	"railbook/internal/services"
	"railbook/internal/utils"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Tokens.CheckAdminPassword(req.Password); err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			utils.LogEvent(requestID(c), "auth", "login_rejected", "bad admin password")
			respondError(c, http.StatusUnauthorized, "bad_credentials", "invalid password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	token, err := h.Tokens.IssueAdminToken()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": services.RoleAdmin})
}
