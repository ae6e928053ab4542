package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListStates(c *gin.Context) {
	resp, err := s.referenceRepo.ListStates(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTransportModes(c *gin.Context) {
	resp, err := s.referenceRepo.ListTransportModes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListGSTRates(c *gin.Context) {
	resp, err := s.referenceRepo.ListGSTRates(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
