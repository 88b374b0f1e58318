package httpserver

import (
	"encoding/csv"
	"errors"
	"log"
	"net/http"
	"strconv"

	"bakery-orders/internal/domain"
	orderrepo "bakery-orders/internal/repository/order"
	"github.com/gin-gonic/gin"
)

func listOrdersHandler(svc orderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := listFilterFromQuery(c)
		if !ok {
			return
		}
		orders, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			logger.Printf("admin list orders: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		resp := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, toOrderResponse(o))
		}
		c.JSON(http.StatusOK, resp)
	}
}

func getOrderHandler(svc orderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		order, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			logger.Printf("admin get order %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*order))
	}
}

var csvHeader = []string{"id", "created_at", "customer_name", "customer_phone", "customer_address", "mode", "delivery_date", "total", "status", "items"}

func exportOrdersHandler(svc orderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := listFilterFromQuery(c)
		if !ok {
			return
		}
		orders, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			logger.Printf("admin export orders: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
		c.Status(http.StatusOK)

		w := csv.NewWriter(c.Writer)
		_ = w.Write(csvHeader)
		for _, o := range orders {
			_ = w.Write(csvRecord(o))
		}
		w.Flush()
		if err := w.Error(); err != nil {
			logger.Printf("admin export orders: write csv: %v", err)
		}
	}
}

func csvRecord(o domain.Order) []string {
	return []string{
		strconv.FormatInt(o.ID, 10),
		o.CreatedAt.Format("2006-01-02 15:04:05"),
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerAddress,
		string(o.Mode),
		o.DeliveryDateString(),
		formatCents(o.TotalCents),
		string(o.Status),
		itemsColumn(o.Items),
	}
}

func itemsColumn(items []domain.OrderItem) string {
	col := ""
	for i, it := range items {
		if i > 0 {
			col += "; "
		}
		col += strconv.Itoa(it.Quantity) + "x #" + strconv.FormatInt(it.ProductID, 10)
	}
	return col
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func setOrderStatusHandler(svc orderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		var req setStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		status, err := domain.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or done"})
			return
		}
		if err := svc.SetStatus(c.Request.Context(), id, status); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			logger.Printf("admin set status id=%d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "status": string(status)})
	}
}

// listFilterFromQuery parses limit and status query params, writing the error
// response itself when they are malformed.
func listFilterFromQuery(c *gin.Context) (orderrepo.ListFilter, bool) {
	var filter orderrepo.ListFilter
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return filter, false
		}
		filter.Limit = limit
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or done"})
			return filter, false
		}
		filter.Status = status
	}
	return filter, true
}
