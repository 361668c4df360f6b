package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	taxpayerdomain "github.com/opencommune/fiscalis/internal/taxpayer/domain"
)

func (s *Server) CreateTaxpayer(c *gin.Context) {
	var req taxpayerdomain.CreateTaxpayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	taxpayer, err := s.taxpayerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taxpayer)
}

func (s *Server) ListTaxpayers(c *gin.Context) {
	req := taxpayerdomain.ListTaxpayerRequest{
		Status:       c.Query("status"),
		Category:     c.Query("category"),
		Commune:      c.Query("commune"),
		Neighborhood: c.Query("neighborhood"),
	}

	taxpayers, err := s.taxpayerSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"taxpayers": taxpayers})
}

func (s *Server) GetTaxpayer(c *gin.Context) {
	taxpayer, err := s.taxpayerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, taxpayer)
}

func (s *Server) ApproveTaxpayer(c *gin.Context) {
	taxpayer, err := s.taxpayerSvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, taxpayer)
}

func (s *Server) DeclareMeasure(c *gin.Context) {
	var req taxpayerdomain.DeclareMeasureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	measure, err := s.taxpayerSvc.DeclareMeasure(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, measure)
}
