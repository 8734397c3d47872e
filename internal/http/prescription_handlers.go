package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medicart/internal/domain"
	"medicart/internal/service"
)

type prescribedReq struct {
	MedicineID uint  `json:"medicine_id" binding:"required"`
	Quantity   int64 `json:"quantity" binding:"required,gte=1"`
}

type verifyPrescriptionReq struct {
	Status            domain.PrescriptionStatus `json:"status" binding:"required"`
	VerificationNotes string                    `json:"verification_notes"`
	Medicines         []prescribedReq           `json:"medicines" binding:"omitempty,dive"`
}

// @Summary Upload a prescription image
// @Tags prescriptions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Prescription image"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /prescriptions/upload [post]
func (s *Server) uploadPrescription(c *gin.Context) {
	// room for the multipart envelope around a file of the maximum size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "file is larger than 10 MB"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}
	if fh.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "file is larger than 10 MB"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	p, err := s.prescriptions.Upload(c.Request.Context(), currentUser(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Prescription uploaded successfully", "prescription": p})
}

// @Summary My prescriptions
// @Tags prescriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Prescription
// @Router /prescriptions/my-prescriptions [get]
func (s *Server) myPrescriptions(c *gin.Context) {
	list, err := s.prescriptions.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get prescription by id
// @Tags prescriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prescription ID"
// @Success 200 {object} domain.Prescription
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /prescriptions/{id} [get]
func (s *Server) getPrescription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := s.prescriptions.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Verify prescription
// @Tags prescriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prescription ID"
// @Param input body verifyPrescriptionReq true "Decision"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /prescriptions/{id}/verify [put]
func (s *Server) verifyPrescription(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req verifyPrescriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := service.VerifyInput{Status: req.Status, VerificationNotes: req.VerificationNotes}
	if req.Medicines != nil {
		in.Medicines = make([]service.PrescribedLine, 0, len(req.Medicines))
		for _, m := range req.Medicines {
			in.Medicines = append(in.Medicines, service.PrescribedLine{MedicineID: m.MedicineID, Quantity: m.Quantity})
		}
	}
	p, err := s.prescriptions.Verify(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prescription verified successfully", "prescription": p})
}
