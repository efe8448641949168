package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type amountRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	guest, err := s.guestSvc.RecordPayment(c.Request.Context(), id, req.Amount, strings.TrimSpace(req.Note))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": guest})
}

func (s *Server) AddCharge(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	guest, err := s.guestSvc.AddCharge(c.Request.Context(), id, req.Amount, strings.TrimSpace(req.Note))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": guest})
}

type vacateRequest struct {
	ExitDate string `json:"exit_date"`
}

func (s *Server) VacateGuest(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	var req vacateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	exitDate, err := parseTimestamp(req.ExitDate)
	if err != nil {
		AbortWithError(c, newValidationError("exit_date", "invalid_exit_date", "invalid exit_date"))
		return
	}

	guest, err := s.guestSvc.Vacate(c.Request.Context(), id, exitDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": guest})
}

// ReconcileGuest is the on-demand administrative catch-up action.
func (s *Server) ReconcileGuest(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	outcome, err := s.guestSvc.Reconcile(c.Request.Context(), id, s.clk.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"guest":            outcome.Guest,
		"cycles_processed": outcome.CyclesProcessed,
	}})
}

func (s *Server) ListLedger(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	// 404 for unknown guests rather than an empty ledger.
	if _, err := s.guestSvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	entries, err := s.ledgerSvc.ListEntries(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
