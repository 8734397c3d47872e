package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medicart/internal/domain"
	"medicart/internal/service"
)

type registerReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address"`
}

func (r registerReq) input() service.RegisterInput {
	return service.RegisterInput{Name: r.Name, Email: r.Email, Password: r.Password, Phone: r.Phone, Address: r.Address}
}

type staffReq struct {
	registerReq
	Role domain.Role `json:"role" binding:"required,oneof=admin pharmacist"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResp struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// @Summary Register a customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerReq true "Account"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := s.auth.Register(c.Request.Context(), req.input())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} loginResp
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	token, u, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResp{Token: token, TokenType: "bearer", User: u})
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// @Summary Create a staff account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body staffReq true "Staff account"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /auth/staff [post]
func (s *Server) createStaff(c *gin.Context) {
	var req staffReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := s.auth.CreateStaff(c.Request.Context(), currentUser(c), req.input(), req.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}
