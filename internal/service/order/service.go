package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"bakery-orders/internal/domain"
	orderrepo "bakery-orders/internal/repository/order"
)

type productRepo interface {
	Lookup(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
}

type orderRepo interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, f orderrepo.ListFilter) ([]domain.Order, error)
	SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// CheckoutLine is one named, priced line handed to the payment collaborator.
type CheckoutLine struct {
	Name           string
	UnitPriceCents int64
	Quantity       int
}

// CheckoutProvider creates a payment session for a priced order and returns
// its checkout URL. A nil provider means the integration is disabled.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, lines []CheckoutLine) (string, error)
}

// Notifier receives finalized orders on a best-effort basis. Its errors are
// logged and discarded; they never fail the request.
type Notifier interface {
	OrderCreated(ctx context.Context, o domain.Order) error
}

// Service is the order pricing and validation engine. All collaborators are
// injected; the engine itself performs no I/O of its own.
type Service struct {
	products productRepo
	orders   orderRepo
	checkout CheckoutProvider
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
}

func New(products productRepo, orders orderrepo.Repository, checkout CheckoutProvider, notifier Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		products: products,
		orders:   orders,
		checkout: checkout,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CartItem references a catalog product and a requested quantity. The shape
// (qty >= 1, known mode) is enforced at the transport layer; business rules
// live here.
type CartItem struct {
	ProductID int64
	Quantity  int
}

type CustomerInput struct {
	Name    string
	Phone   string
	Address string
}

type CreateInput struct {
	Customer CustomerInput
	Items    []CartItem
	Mode     domain.FulfillmentMode
}

// Create validates, prices, and persists an order. Checks run in a fixed
// order and short-circuit on first failure so rejection reasons are
// deterministic; nothing is persisted unless every step succeeds.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// All-or-nothing cart policy: a single item of the wrong product for the
	// chosen mode rejects the whole order.
	allowed := in.Mode.AllowedProductID()
	for _, it := range in.Items {
		if it.ProductID != allowed {
			return nil, domain.ErrIncompatibleProduct
		}
	}

	address := strings.TrimSpace(in.Customer.Address)
	if in.Mode == domain.ModeDelivery && address == "" {
		return nil, domain.ErrAddressRequired
	}

	var deliveryDate *time.Time
	if in.Mode == domain.ModeDelivery {
		d := nextFriday(s.now())
		deliveryDate = &d
	}

	resolved, err := s.products.Lookup(ctx, distinctIDs(in.Items))
	if err != nil {
		return nil, fmt.Errorf("resolve prices: %w", err)
	}

	var total int64
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p, ok := resolved[it.ProductID]
		if !ok {
			// Unreachable after the compatibility check unless the catalog
			// was reseeded concurrently; still rejected explicitly.
			return nil, domain.ErrInvalidProduct
		}
		total += p.PriceCents * int64(it.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: p.PriceCents,
		})
	}

	var checkoutURL *string
	if s.checkout != nil {
		lines := make([]CheckoutLine, 0, len(items))
		for _, it := range items {
			lines = append(lines, CheckoutLine{
				Name:           resolved[it.ProductID].Name,
				UnitPriceCents: it.UnitPriceCents,
				Quantity:       it.Quantity,
			})
		}
		url, err := s.checkout.CreateSession(ctx, lines)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPaymentSession, err)
		}
		checkoutURL = &url
	}

	order := &domain.Order{
		CustomerName:    in.Customer.Name,
		CustomerPhone:   in.Customer.Phone,
		CustomerAddress: in.Customer.Address,
		Mode:            in.Mode,
		TotalCents:      total,
		DeliveryDate:    deliveryDate,
		CheckoutURL:     checkoutURL,
		Status:          domain.StatusPending,
		Items:           items,
	}

	stored, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.notifyCreated(ctx, *stored)
	return stored, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f orderrepo.ListFilter) ([]domain.Order, error) {
	return s.orders.List(ctx, f)
}

// SetStatus toggles an order between pending and done. Both transitions are
// idempotent; there is no terminal state.
func (s *Service) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	return s.orders.SetStatus(ctx, id, status)
}

// notifyCreated hands the finalized order to the notifier, if any. Failures
// are logged and swallowed.
func (s *Service) notifyCreated(ctx context.Context, o domain.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.OrderCreated(ctx, o); err != nil {
		s.logger.Printf("order service: notify order %d failed: %v", o.ID, err)
	}
}

// nextFriday returns the next Friday on or after the given instant, at
// midnight in its location. If t is already a Friday the result is that same
// day, not the following week.
func nextFriday(t time.Time) time.Time {
	days := (int(time.Friday) - int(t.Weekday()) + 7) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, days)
}

func distinctIDs(items []CartItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
