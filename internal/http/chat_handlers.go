package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type chatReq struct {
	Message string          `json:"message" binding:"required"`
	Context json.RawMessage `json:"context" swaggertype:"object"`
}

type chatResp struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// @Summary Ask the AI assistant
// @Tags ai
// @Accept json
// @Produce json
// @Param input body chatReq true "Message and optional page context"
// @Success 200 {object} chatResp
// @Failure 400 {object} map[string]string
// @Router /ai/chat [post]
func (s *Server) chatReply(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply, err := s.chat.Reply(c.Request.Context(), req.Message, req.Context)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chatResp{Response: reply, Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

// @Summary AI assistant health
// @Tags ai
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ai/health [get]
func (s *Server) chatHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "MediCart AI Assistant", "model": s.chat.Model()})
}
