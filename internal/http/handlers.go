package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"medicart/internal/logger"
	"medicart/internal/repository"
	"medicart/internal/service"
)

const (
	serviceName = "MediCart Pharmacy API"
	apiVersion  = "1.0.0"

	maxUploadSize = 10 << 20
)

// Services groups everything the handlers call into
type Services struct {
	Auth          *service.AuthService
	Medicines     *service.MedicineService
	Prescriptions *service.PrescriptionService
	Orders        *service.OrderService
	Consultations *service.ConsultationService
	Chat          *service.ChatService
}

type Server struct {
	engine    *gin.Engine
	log       zerolog.Logger
	uploadDir string

	auth          *service.AuthService
	medicines     *service.MedicineService
	prescriptions *service.PrescriptionService
	orders        *service.OrderService
	consultations *service.ConsultationService
	chat          *service.ChatService
}

// NewServer wires routes. Files under uploadDir are served at /uploads.
func NewServer(svc Services, uploadDir string, log zerolog.Logger) *Server {
	r := gin.New()
	r.Use(logger.Gin(log), gin.Recovery())
	r.MaxMultipartMemory = maxUploadSize
	s := &Server{
		engine:        r,
		log:           log,
		uploadDir:     uploadDir,
		auth:          svc.Auth,
		medicines:     svc.Medicines,
		prescriptions: svc.Prescriptions,
		orders:        svc.Orders,
		consultations: svc.Consultations,
		chat:          svc.Chat,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.Static("/uploads", s.uploadDir)
	s.engine.GET("/", s.root)

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.health)

		auth := api.Group("/auth")
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.GET("/me", s.requireAuth, s.me)
		auth.POST("/staff", s.requireAuth, s.createStaff)

		medicines := api.Group("/medicines")
		medicines.GET("", s.listMedicines)
		medicines.GET("/featured", s.featuredMedicines)
		medicines.GET("/:id", s.getMedicine)
		medicines.POST("", s.requireAuth, s.createMedicine)
		medicines.PUT("/:id", s.requireAuth, s.updateMedicine)
		medicines.DELETE("/:id", s.requireAuth, s.deleteMedicine)

		prescriptions := api.Group("/prescriptions", s.requireAuth)
		prescriptions.POST("/upload", s.uploadPrescription)
		prescriptions.GET("/my-prescriptions", s.myPrescriptions)
		prescriptions.GET("/:id", s.getPrescription)
		prescriptions.PUT("/:id/verify", s.verifyPrescription)

		orders := api.Group("/orders", s.requireAuth)
		orders.POST("", s.createOrder)
		orders.GET("/my-orders", s.myOrders)
		orders.GET("/:id", s.getOrder)
		orders.PUT("/:id/status", s.updateOrderStatus)

		consultations := api.Group("/consultations", s.requireAuth)
		consultations.POST("", s.createConsultation)
		consultations.GET("/my-consultations", s.myConsultations)
		consultations.GET("", s.listConsultations)
		consultations.PUT("/:id/respond", s.respondConsultation)

		ai := api.Group("/ai")
		ai.POST("/chat", s.chatReply)
		ai.GET("/health", s.chatHealth)
	}
}

// root is outside the documented /api base path
func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "MediCart Pharmacy API is running"})
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName, "version": apiVersion})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// pathID reads the :id parameter and answers 400 when it is not a positive integer
func pathID(c *gin.Context) (uint, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request: " + err.Error()})
}

func mapErrorToStatus(err error) int {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNotEnoughStock),
		errors.Is(err, service.ErrPrescriptionRequired),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrNotImage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error body. Internal errors are logged and hidden from the caller.
func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"detail": "Internal server error"})
		return
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}
