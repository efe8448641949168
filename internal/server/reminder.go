package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roombox/roombox/internal/reminder"
)

// PreviewReminder evaluates the reminder decision for a guest without
// sending anything.
func (s *Server) PreviewReminder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	guest, err := s.guestSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	decision := reminder.Evaluate(guest.BillingProfile(), guest.Phone, s.clk.Now())
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"should_send": decision.ShouldSend,
		"title":       decision.Title,
		"body":        decision.Body,
	}})
}
