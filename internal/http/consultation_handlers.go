package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createConsultationReq struct {
	Question string `json:"question" binding:"required"`
	Category string `json:"category"`
}

type respondConsultationReq struct {
	Response string `json:"response" binding:"required"`
}

// @Summary Ask a pharmacist
// @Tags consultations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createConsultationReq true "Question"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /consultations [post]
func (s *Server) createConsultation(c *gin.Context) {
	var req createConsultationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cons, err := s.consultations.Create(c.Request.Context(), currentUser(c), req.Question, req.Category)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Consultation request submitted successfully", "consultation": cons})
}

// @Summary My consultations
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Consultation
// @Router /consultations/my-consultations [get]
func (s *Server) myConsultations(c *gin.Context) {
	list, err := s.consultations.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary All consultations (staff)
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Consultation
// @Failure 403 {object} map[string]string
// @Router /consultations [get]
func (s *Server) listConsultations(c *gin.Context) {
	list, err := s.consultations.ListAll(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Answer a consultation
// @Tags consultations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Consultation ID"
// @Param input body respondConsultationReq true "Answer"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /consultations/{id}/respond [put]
func (s *Server) respondConsultation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req respondConsultationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cons, err := s.consultations.Respond(c.Request.Context(), currentUser(c), id, req.Response)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Response submitted successfully", "consultation": cons})
}
