package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	referencedomain "github.com/opencommune/fiscalis/internal/reference/domain"
)

func (s *Server) ListCategories(c *gin.Context) {
	categories, err := s.referenceSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req referencedomain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	category, err := s.referenceSvc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) ListCommunes(c *gin.Context) {
	communes, err := s.referenceSvc.ListCommunes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communes": communes})
}

func (s *Server) CreateCommune(c *gin.Context) {
	var req referencedomain.CreateCommuneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	commune, err := s.referenceSvc.CreateCommune(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commune)
}

func (s *Server) ListTaxes(c *gin.Context) {
	taxes, err := s.referenceSvc.ListTaxes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taxes": taxes})
}

func (s *Server) CreateTax(c *gin.Context) {
	var req referencedomain.CreateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	tax, err := s.referenceSvc.CreateTax(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tax)
}
