package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	"github.com/vyapari/gstbill/internal/compliance/validate"
)

type assessEwayRequest struct {
	GrandTotal float64                           `json:"grand_total"`
	Transport  compliancedomain.TransportDetails `json:"transport"`
}

// AssessEway answers "does this consignment need an e-Way bill, and for how
// long is one valid" without touching any invoice.
func (s *Server) AssessEway(c *gin.Context) {
	var req assessEwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.complianceSvc.ValidateTransport(req.Transport); err != nil {
		AbortWithError(c, err)
		return
	}

	resp := s.complianceSvc.Assess(req.GrandTotal, req.Transport)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type validateRequest struct {
	Value string `json:"value"`
}

type validateResponse struct {
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (s *Server) ValidateVehicleNumber(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	normalized, err := validate.VehicleNumber(req.Value)
	c.JSON(http.StatusOK, gin.H{"data": toValidateResponse(normalized, err)})
}

func (s *Server) ValidateGSTIN(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	normalized, err := validate.GSTIN(req.Value)
	c.JSON(http.StatusOK, gin.H{"data": toValidateResponse(normalized, err)})
}

func toValidateResponse(normalized string, err error) validateResponse {
	if err != nil {
		return validateResponse{Valid: false, Reason: err.Error()}
	}
	return validateResponse{Valid: true, Normalized: normalized}
}
