package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	noticedomain "github.com/opencommune/fiscalis/internal/notice/domain"
)

// CalculateNotice prices and persists the notice for one taxpayer and year.
func (s *Server) CalculateNotice(c *gin.Context) {
	year, err := strconv.Atoi(strings.TrimSpace(c.Param("year")))
	if err != nil || year <= 0 {
		AbortWithError(c, noticedomain.ErrInvalidYear)
		return
	}

	notice, err := s.noticeSvc.Calculate(c.Request.Context(), c.Param("id"), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, notice)
}

// BulkGenerateNotices runs batch generation across a filtered population.
func (s *Server) BulkGenerateNotices(c *gin.Context) {
	var req noticedomain.BulkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	report, err := s.noticeSvc.BulkGenerate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
