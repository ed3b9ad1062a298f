package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type confirmationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// handleSendConfirmation emails a confirmation message to the given address.
// The relay call runs outside the task store.
func (s *Server) handleSendConfirmation(c *gin.Context) {
	var req confirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.notifier.SendConfirmation(c.Request.Context(), req.Email); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"ok": true})
}
