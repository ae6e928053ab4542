package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateOnlyLayout = "2006-01-02"

func (s *Server) DailySalesReport(c *gin.Context) {
	day := time.Now().UTC()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "want YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	resp, err := s.invoiceSvc.DailySales(c.Request.Context(), day)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GSTSummaryReport(c *gin.Context) {
	from, to, err := parseReportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.GSTSummary(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PaymentModeReport(c *gin.Context) {
	from, to, err := parseReportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.PaymentBreakdown(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportGSTR1(c *gin.Context) {
	resp, err := s.gstr1Svc.Export(c.Request.Context(), strings.TrimSpace(c.Param("period")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// parseReportRange defaults to the current month when no bounds are given.
// `to` is exclusive after adding a day, so a single-day range works.
func parseReportRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if raw := strings.TrimSpace(rawFrom); raw != "" {
		parsed, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, newValidationError("from", "invalid_from", "want YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := strings.TrimSpace(rawTo); raw != "" {
		parsed, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, newValidationError("to", "invalid_to", "want YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}
