package httpserver

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"bakery-orders/internal/domain"
	ordersvc "bakery-orders/internal/service/order"
	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	Customer customerPayload `json:"customer" binding:"required"`
	Items    []itemPayload   `json:"items" binding:"dive"`
	Mode     string          `json:"mode" binding:"required,oneof=pickup delivery"`
}

type customerPayload struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
}

type itemPayload struct {
	ID  int64 `json:"id" binding:"required"`
	Qty int   `json:"qty" binding:"required,min=1"`
}

type orderResponse struct {
	ID           int64          `json:"id"`
	CustomerName string         `json:"customerName"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address,omitempty"`
	Mode         string         `json:"mode"`
	TotalCents   int64          `json:"totalCents"`
	Total        string         `json:"total"`
	DeliveryDate *string        `json:"deliveryDate,omitempty"`
	CheckoutURL  *string        `json:"checkoutUrl,omitempty"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	Items        []itemResponse `json:"items"`
}

type itemResponse struct {
	ProductID      int64  `json:"productId"`
	Quantity       int    `json:"qty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	UnitPrice      string `json:"unitPrice"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Phone:        o.CustomerPhone,
		Address:      o.CustomerAddress,
		Mode:         string(o.Mode),
		TotalCents:   o.TotalCents,
		Total:        formatCents(o.TotalCents),
		CheckoutURL:  o.CheckoutURL,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		Items:        make([]itemResponse, 0, len(o.Items)),
	}
	if o.DeliveryDate != nil {
		d := o.DeliveryDateString()
		resp.DeliveryDate = &d
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, itemResponse{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			UnitPrice:      formatCents(it.UnitPriceCents),
		})
	}
	return resp
}

func listProductsHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func createOrderHandler(svc orderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		mode, err := domain.ParseFulfillmentMode(req.Mode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be pickup or delivery"})
			return
		}

		items := make([]ordersvc.CartItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, ordersvc.CartItem{ProductID: it.ID, Quantity: it.Qty})
		}

		order, err := svc.Create(c.Request.Context(), ordersvc.CreateInput{
			Customer: ordersvc.CustomerInput{
				Name:    req.Customer.Name,
				Phone:   req.Customer.Phone,
				Address: req.Customer.Address,
			},
			Items: items,
			Mode:  mode,
		})
		if err != nil {
			writeOrderError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, toOrderResponse(*order))
	}
}

// writeOrderError maps engine rejections to response codes. Validation
// rejections carry their user-facing reason; anything else stays opaque.
func writeOrderError(c *gin.Context, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrIncompatibleProduct),
		errors.Is(err, domain.ErrAddressRequired),
		errors.Is(err, domain.ErrInvalidProduct):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrPaymentSession):
		// The wrapped cause names the payment backend; keep it server-side.
		logger.Printf("create order: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": domain.ErrPaymentSession.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Printf("create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
