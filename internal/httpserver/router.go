package httpserver

import (
	"context"
	"log"
	"time"

	"bakery-orders/internal/domain"
	orderrepo "bakery-orders/internal/repository/order"
	ordersvc "bakery-orders/internal/service/order"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type orderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, f orderrepo.ListFilter) ([]domain.Order, error)
	SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// Deps carries the services and settings the router needs.
type Deps struct {
	CatalogSvc  catalogService
	OrderSvc    orderService
	AdminToken  string
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/", rootHandler)
	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.POST("/orders", createOrderHandler(deps.OrderSvc, logger))

	admin := router.Group("/admin", adminAuth(deps.AdminToken))
	admin.GET("/orders", listOrdersHandler(deps.OrderSvc, logger))
	// gin cannot mix a static segment with :id at the same position.
	admin.GET("/export", exportOrdersHandler(deps.OrderSvc, logger))
	admin.GET("/orders/:id", getOrderHandler(deps.OrderSvc, logger))
	admin.PATCH("/orders/:id/status", setOrderStatusHandler(deps.OrderSvc, logger))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Admin-Token"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
