package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medicart/internal/domain"
	"medicart/internal/service"
)

// Order handlers
type orderItemReq struct {
	MedicineID uint  `json:"medicine_id" binding:"required"`
	Quantity   int64 `json:"quantity" binding:"required,gte=1"`
}

type createOrderReq struct {
	Items           []orderItemReq `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string         `json:"shipping_address"`
	PrescriptionID  *uint          `json:"prescription_id"`
}

type updateOrderStatusReq struct {
	Status        domain.OrderStatus    `json:"status" binding:"required"`
	PaymentStatus *domain.PaymentStatus `json:"payment_status"`
}

// @Summary Place order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createOrderReq true "Order"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, service.OrderLine{MedicineID: it.MedicineID, Quantity: it.Quantity})
	}
	o, err := s.orders.PlaceOrder(c.Request.Context(), currentUser(c), service.PlaceOrderInput{
		Items:           lines,
		ShippingAddress: req.ShippingAddress,
		PrescriptionID:  req.PrescriptionID,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": o})
}

// @Summary My orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Router /orders/my-orders [get]
func (s *Server) myOrders(c *gin.Context) {
	list, err := s.orders.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := s.orders.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param input body updateOrderStatusReq true "New status"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	o, err := s.orders.UpdateStatus(c.Request.Context(), currentUser(c), id, service.StatusUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": o})
}
