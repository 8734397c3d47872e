package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medicart/internal/repository"
	"medicart/internal/service"
)

type listMedicinesQuery struct {
	Skip     int    `form:"skip" binding:"omitempty,gte=0"`
	Limit    int    `form:"limit" binding:"omitempty,gte=1"`
	Category string `form:"category"`
	Search   string `form:"search"`
}

type createMedicineReq struct {
	Name                 string  `json:"name" binding:"required"`
	Description          string  `json:"description"`
	Price                float64 `json:"price" binding:"gte=0"`
	Category             string  `json:"category"`
	Manufacturer         string  `json:"manufacturer"`
	Stock                int64   `json:"stock" binding:"gte=0"`
	RequiresPrescription bool    `json:"requires_prescription"`
	ImageURL             string  `json:"image_url"`
	IsFeatured           bool    `json:"is_featured"`
}

// updateMedicineReq leaves fields that are absent from the body unchanged
type updateMedicineReq struct {
	Name                 *string  `json:"name" binding:"omitempty,min=1"`
	Description          *string  `json:"description"`
	Price                *float64 `json:"price" binding:"omitempty,gte=0"`
	Category             *string  `json:"category"`
	Manufacturer         *string  `json:"manufacturer"`
	Stock                *int64   `json:"stock" binding:"omitempty,gte=0"`
	RequiresPrescription *bool    `json:"requires_prescription"`
	ImageURL             *string  `json:"image_url"`
	IsFeatured           *bool    `json:"is_featured"`
}

// @Summary List medicines
// @Tags medicines
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Param category query string false "Exact category"
// @Param search query string false "Name contains (case-insensitive)"
// @Success 200 {array} domain.Medicine
// @Failure 400 {object} map[string]string
// @Router /medicines [get]
func (s *Server) listMedicines(c *gin.Context) {
	var q listMedicinesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	list, err := s.medicines.List(c.Request.Context(), repository.MedicineFilter{
		Skip:          q.Skip,
		Limit:         q.Limit,
		Category:      q.Category,
		NameSubstring: q.Search,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Featured medicines
// @Tags medicines
// @Produce json
// @Success 200 {array} domain.Medicine
// @Router /medicines/featured [get]
func (s *Server) featuredMedicines(c *gin.Context) {
	list, err := s.medicines.Featured(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get medicine by id
// @Tags medicines
// @Produce json
// @Param id path int true "Medicine ID"
// @Success 200 {object} domain.Medicine
// @Failure 404 {object} map[string]string
// @Router /medicines/{id} [get]
func (s *Server) getMedicine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := s.medicines.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary Create medicine
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createMedicineReq true "Medicine"
// @Success 201 {object} domain.Medicine
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /medicines [post]
func (s *Server) createMedicine(c *gin.Context) {
	var req createMedicineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := s.medicines.Create(c.Request.Context(), currentUser(c), service.MedicineInput{
		Name:                 req.Name,
		Description:          req.Description,
		Price:                req.Price,
		Category:             req.Category,
		Manufacturer:         req.Manufacturer,
		Stock:                req.Stock,
		RequiresPrescription: req.RequiresPrescription,
		ImageURL:             req.ImageURL,
		IsFeatured:           req.IsFeatured,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary Update medicine
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Medicine ID"
// @Param input body updateMedicineReq true "Fields to change"
// @Success 200 {object} domain.Medicine
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /medicines/{id} [put]
func (s *Server) updateMedicine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateMedicineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := s.medicines.Update(c.Request.Context(), currentUser(c), id, service.MedicineUpdate{
		Name:                 req.Name,
		Description:          req.Description,
		Price:                req.Price,
		Category:             req.Category,
		Manufacturer:         req.Manufacturer,
		Stock:                req.Stock,
		RequiresPrescription: req.RequiresPrescription,
		ImageURL:             req.ImageURL,
		IsFeatured:           req.IsFeatured,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary Delete medicine
// @Tags medicines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Medicine ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /medicines/{id} [delete]
func (s *Server) deleteMedicine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.medicines.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Medicine deleted successfully"})
}
