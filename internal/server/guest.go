package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	guestdomain "github.com/roombox/roombox/internal/guest/domain"
)

type onboardGuestRequest struct {
	PropertyID string `json:"property_id"`
	BedCode    string `json:"bed_code"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	MoveInDate string `json:"move_in_date"`
	CycleUnit  string `json:"rent_cycle_unit"`
	CycleValue int    `json:"rent_cycle_value"`
	AnchorDay  int    `json:"billing_anchor_day"`
	RentAmount int64  `json:"rent_amount"`
}

func (s *Server) OnboardGuest(c *gin.Context) {
	var req onboardGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	propertyID, err := parseID(req.PropertyID)
	if err != nil {
		AbortWithError(c, newValidationError("property_id", "invalid_property_id", "invalid property_id"))
		return
	}
	moveIn, err := parseTimestamp(req.MoveInDate)
	if err != nil {
		AbortWithError(c, newValidationError("move_in_date", "invalid_move_in_date", "invalid move_in_date"))
		return
	}

	guest, err := s.guestSvc.Onboard(c.Request.Context(), guestdomain.OnboardGuestRequest{
		PropertyID: propertyID,
		BedCode:    strings.TrimSpace(req.BedCode),
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		MoveInDate: moveIn,
		CycleUnit:  req.CycleUnit,
		CycleValue: req.CycleValue,
		AnchorDay:  req.AnchorDay,
		RentAmount: req.RentAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": guest})
}

func (s *Server) ListGuests(c *gin.Context) {
	var query struct {
		PropertyID string `form:"property_id"`
		Status     string `form:"status"`
		Active     bool   `form:"active"`
		Limit      int    `form:"limit"`
		Offset     int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := guestdomain.ListGuestsRequest{
		Status: strings.TrimSpace(query.Status),
		Active: query.Active,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if raw := strings.TrimSpace(query.PropertyID); raw != "" {
		propertyID, err := parseID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("property_id", "invalid_property_id", "invalid property_id"))
			return
		}
		req.PropertyID = propertyID
	}

	guests, err := s.guestSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": guests})
}

func (s *Server) GetGuest(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"data": guest})
}

func parseID(raw string) (snowflake.ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, guestdomain.ErrGuestNotFound
	}
	return snowflake.ID(n), nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
