package order

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"bakery-orders/internal/domain"
	orderrepo "bakery-orders/internal/repository/order"
)

type stubProductRepo struct {
	products map[int64]domain.Product
	err      error
	lastIDs  []int64
}

func (s *stubProductRepo) Lookup(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	s.lastIDs = ids
	if s.err != nil {
		return nil, s.err
	}
	result := make(map[int64]domain.Product)
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

type stubOrderRepo struct {
	createErr    error
	created      *domain.Order
	nextID       int64
	statusByID   map[int64]domain.OrderStatus
	setStatusErr error
	listResult   []domain.Order
	lastFilter   orderrepo.ListFilter
}

func (s *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	stored := *o
	s.nextID++
	stored.ID = s.nextID
	stored.CreatedAt = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s.created = &stored
	return &stored, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubOrderRepo) List(_ context.Context, f orderrepo.ListFilter) ([]domain.Order, error) {
	s.lastFilter = f
	return s.listResult, nil
}

func (s *stubOrderRepo) SetStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	if s.setStatusErr != nil {
		return s.setStatusErr
	}
	if s.statusByID == nil {
		s.statusByID = make(map[int64]domain.OrderStatus)
	}
	s.statusByID[id] = status
	return nil
}

type stubCheckout struct {
	url       string
	err       error
	lastLines []CheckoutLine
	calls     int
}

func (s *stubCheckout) CreateSession(_ context.Context, lines []CheckoutLine) (string, error) {
	s.calls++
	s.lastLines = lines
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

type stubNotifier struct {
	err   error
	calls int
	last  domain.Order
}

func (s *stubNotifier) OrderCreated(_ context.Context, o domain.Order) error {
	s.calls++
	s.last = o
	return s.err
}

func bakeryCatalog() map[int64]domain.Product {
	return map[int64]domain.Product{
		1: {ID: 1, Name: "Pickup pack", PriceCents: 500},
		2: {ID: 2, Name: "Friday delivery", PriceCents: 1400},
	}
}

// fixedClock pins the engine to a known date. 2026-03-02 is a Monday.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(products *stubProductRepo, orders *stubOrderRepo) *Service {
	return &Service{
		products: products,
		orders:   orders,
		logger:   log.New(io.Discard, "", 0),
		now:      fixedClock(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)),
	}
}

func TestCreatePickupOrder(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, orders)

	got, err := svc.Create(context.Background(), CreateInput{
		Customer: CustomerInput{Name: "Ana", Phone: "111", Address: ""},
		Items:    []CartItem{{ProductID: 1, Quantity: 2}},
		Mode:     domain.ModePickup,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalCents != 1000 {
		t.Fatalf("expected total 1000, got %d", got.TotalCents)
	}
	if got.DeliveryDate != nil {
		t.Fatalf("pickup order must not carry a delivery date, got %v", got.DeliveryDate)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("expected pending status, got %s", got.Status)
	}
	if got.CheckoutURL != nil {
		t.Fatalf("checkout disabled, expected no URL")
	}
	if len(got.Items) != 1 || got.Items[0].UnitPriceCents != 500 || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", got.Items)
	}
}

func TestCreateDeliveryOrder(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, orders)

	got, err := svc.Create(context.Background(), CreateInput{
		Customer: CustomerInput{Name: "Bruno", Phone: "222", Address: "Rua X, 10"},
		Items:    []CartItem{{ProductID: 2, Quantity: 1}},
		Mode:     domain.ModeDelivery,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalCents != 1400 {
		t.Fatalf("expected total 1400, got %d", got.TotalCents)
	}
	if got.DeliveryDate == nil {
		t.Fatalf("delivery order must carry a delivery date")
	}
	// Clock is pinned to Monday 2026-03-02; next Friday is 2026-03-06.
	if want := "2026-03-06"; got.DeliveryDateString() != want {
		t.Fatalf("expected delivery date %s, got %s", want, got.DeliveryDateString())
	}
}

func TestCreateEmptyCart(t *testing.T) {
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, &stubOrderRepo{})

	for _, mode := range []domain.FulfillmentMode{domain.ModePickup, domain.ModeDelivery} {
		_, err := svc.Create(context.Background(), CreateInput{
			Customer: CustomerInput{Name: "Ana", Phone: "111", Address: "Rua X"},
			Items:    nil,
			Mode:     mode,
		})
		if !errors.Is(err, domain.ErrEmptyCart) {
			t.Fatalf("mode %s: expected ErrEmptyCart, got %v", mode, err)
		}
	}
}

func TestCreateIncompatibleProduct(t *testing.T) {
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, &stubOrderRepo{})

	cases := []struct {
		name  string
		items []CartItem
		mode  domain.FulfillmentMode
	}{
		{"pickup id under delivery", []CartItem{{ProductID: 1, Quantity: 1}}, domain.ModeDelivery},
		{"delivery id under pickup", []CartItem{{ProductID: 2, Quantity: 1}}, domain.ModePickup},
		{"mixed cart rejected whole", []CartItem{{ProductID: 2, Quantity: 1}, {ProductID: 1, Quantity: 1}}, domain.ModeDelivery},
		{"unknown id", []CartItem{{ProductID: 99, Quantity: 1}}, domain.ModePickup},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), CreateInput{
			Customer: CustomerInput{Name: "Ana", Phone: "111", Address: "Rua X"},
			Items:    tc.items,
			Mode:     tc.mode,
		})
		if !errors.Is(err, domain.ErrIncompatibleProduct) {
			t.Fatalf("%s: expected ErrIncompatibleProduct, got %v", tc.name, err)
		}
	}
}

func TestCreateAddressRequired(t *testing.T) {
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, &stubOrderRepo{})

	for _, address := range []string{"", "   ", "\t\n"} {
		_, err := svc.Create(context.Background(), CreateInput{
			Customer: CustomerInput{Name: "Ana", Phone: "111", Address: address},
			Items:    []CartItem{{ProductID: 2, Quantity: 3}},
			Mode:     domain.ModeDelivery,
		})
		if !errors.Is(err, domain.ErrAddressRequired) {
			t.Fatalf("address %q: expected ErrAddressRequired, got %v", address, err)
		}
	}
}

func TestCreatePickupIgnoresAddress(t *testing.T) {
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, &stubOrderRepo{})

	for _, address := range []string{"", "   ", "Rua X"} {
		_, err := svc.Create(context.Background(), CreateInput{
			Customer: CustomerInput{Name: "Ana", Phone: "111", Address: address},
			Items:    []CartItem{{ProductID: 1, Quantity: 1}},
			Mode:     domain.ModePickup,
		})
		if err != nil {
			t.Fatalf("address %q: unexpected error %v", address, err)
		}
	}
}

func TestCreateInvalidProduct(t *testing.T) {
	// Catalog resolves nothing: the defensive check must still reject even
	// though the compatibility step passed.
	svc := newTestService(&stubProductRepo{products: map[int64]domain.Product{}}, &stubOrderRepo{})

	_, err := svc.Create(context.Background(), CreateInput{
		Customer: CustomerInput{Name: "Ana", Phone: "111"},
		Items:    []CartItem{{ProductID: 1, Quantity: 1}},
		Mode:     domain.ModePickup,
	})
	if !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestCreateTotalsFromCatalogOnly(t *testing.T) {
	// Catalog price differs from whatever a client might believe; the stored
	// unit price and total must come from the catalog.
	products := &stubProductRepo{products: map[int64]domain.Product{
		1: {ID: 1, Name: "Pickup pack", PriceCents: 725},
	}}
	svc := newTestService(products, &stubOrderRepo{})

	got, err := svc.Create(context.Background(), CreateInput{
		Customer: CustomerInput{Name: "Ana", Phone: "111"},
		Items:    []CartItem{{ProductID: 1, Quantity: 3}, {ProductID: 1, Quantity: 1}},
		Mode:     domain.ModePickup,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalCents != 4*725 {
		t.Fatalf("expected total %d, got %d", 4*725, got.TotalCents)
	}
	for _, it := range got.Items {
		if it.UnitPriceCents != 725 {
			t.Fatalf("expected catalog unit price 725, got %d", it.UnitPriceCents)
		}
	}
	if len(products.lastIDs) != 1 || products.lastIDs[0] != 1 {
		t.Fatalf("expected a single distinct lookup id, got %v", products.lastIDs)
	}
}

func TestNextFriday(t *testing.T) {
	cases := []struct {
		day  string
		want string
	}{
		{"2026-03-02", "2026-03-06"}, // Monday
		{"2026-03-03", "2026-03-06"}, // Tuesday
		{"2026-03-04", "2026-03-06"}, // Wednesday
		{"2026-03-05", "2026-03-06"}, // Thursday
		{"2026-03-06", "2026-03-06"}, // Friday: same day, no forward roll
		{"2026-03-07", "2026-03-13"}, // Saturday
		{"2026-03-08", "2026-03-13"}, // Sunday
	}
	for _, tc := range cases {
		day, err := time.Parse("2006-01-02", tc.day)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.day, err)
		}
		got := nextFriday(day.Add(15 * time.Hour)) // mid-afternoon, same date
		if got.Format("2006-01-02") != tc.want {
			t.Fatalf("nextFriday(%s): expected %s, got %s", tc.day, tc.want, got.Format("2006-01-02"))
		}
	}
}

func TestCreateCheckoutEnabled(t *testing.T) {
	orders := &stubOrderRepo{}
	checkout := &stubCheckout{url: "https://checkout.example/s/abc"}
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, orders)
	svc.checkout = checkout

	got, err := svc.Create(context.Background(), CreateInput{
		Customer: CustomerInput{Name: "Ana", Phone: "111"},
		Items:    []CartItem{{ProductID: 1, Quantity: 2}},
		Mode:     domain.ModePickup,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CheckoutURL == nil || *got.CheckoutURL != checkout.url {
		t.Fatalf("expected checkout URL %q, got %v", checkout.url, got.CheckoutURL)
	}
	if len(checkout.lastLines) != 1 {
		t.Fatalf("expected 1 checkout line, got %d", len(checkout.lastLines))
	}
	line := checkout.lastLines[0]
	if line.Name != "Pickup pack" || line.UnitPriceCents != 500 || line.Quantity != 2 {
		t.Fatalf("unexpected checkout line %+v", line)
	}
}

func TestCreateCheckoutFailureAborts(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, orders)
	svc.checkout = &stubCheckout{err: errors.New("stripe down")}

	_, err := svc.Create(context.Background(), CreateInput{
		Customer: CustomerInput{Name: "Ana", Phone: "111"},
		Items:    []CartItem{{ProductID: 1, Quantity: 1}},
		Mode:     domain.ModePickup,
	})
	if !errors.Is(err, domain.ErrPaymentSession) {
		t.Fatalf("expected ErrPaymentSession, got %v", err)
	}
	if orders.created != nil {
		t.Fatalf("order must not be persisted when the payment session fails")
	}
}

func TestCreateNotifierFailureSwallowed(t *testing.T) {
	orders := &stubOrderRepo{}
	notifier := &stubNotifier{err: errors.New("sheet unreachable")}
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, orders)
	svc.notifier = notifier

	got, err := svc.Create(context.Background(), CreateInput{
		Customer: CustomerInput{Name: "Ana", Phone: "111"},
		Items:    []CartItem{{ProductID: 1, Quantity: 1}},
		Mode:     domain.ModePickup,
	})
	if err != nil {
		t.Fatalf("notifier failure must not fail the request, got %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected notifier to be invoked once, got %d", notifier.calls)
	}
	if notifier.last.ID != got.ID {
		t.Fatalf("notifier received order %d, created %d", notifier.last.ID, got.ID)
	}
}

func TestCreateValidationFailsBeforePersistence(t *testing.T) {
	orders := &stubOrderRepo{}
	checkout := &stubCheckout{url: "https://checkout.example/s/x"}
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, orders)
	svc.checkout = checkout

	_, err := svc.Create(context.Background(), CreateInput{
		Customer: CustomerInput{Name: "Ana", Phone: "111", Address: " "},
		Items:    []CartItem{{ProductID: 2, Quantity: 1}},
		Mode:     domain.ModeDelivery,
	})
	if !errors.Is(err, domain.ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
	if orders.created != nil {
		t.Fatalf("rejected order must not be persisted")
	}
	if checkout.calls != 0 {
		t.Fatalf("rejected order must not open a payment session")
	}
}

func TestSetStatusIdempotent(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, orders)

	if err := svc.SetStatus(context.Background(), 7, domain.StatusDone); err != nil {
		t.Fatalf("set done: %v", err)
	}
	if err := svc.SetStatus(context.Background(), 7, domain.StatusDone); err != nil {
		t.Fatalf("set done again: %v", err)
	}
	if orders.statusByID[7] != domain.StatusDone {
		t.Fatalf("expected done, got %s", orders.statusByID[7])
	}

	if err := svc.SetStatus(context.Background(), 7, domain.StatusPending); err != nil {
		t.Fatalf("revert to pending: %v", err)
	}
	if orders.statusByID[7] != domain.StatusPending {
		t.Fatalf("expected pending after revert, got %s", orders.statusByID[7])
	}
}

func TestListPassesFilter(t *testing.T) {
	orders := &stubOrderRepo{listResult: []domain.Order{{ID: 2}, {ID: 1}}}
	svc := newTestService(&stubProductRepo{products: bakeryCatalog()}, orders)

	got, err := svc.List(context.Background(), orderrepo.ListFilter{Status: domain.StatusPending, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
	if orders.lastFilter.Status != domain.StatusPending || orders.lastFilter.Limit != 10 {
		t.Fatalf("unexpected filter %+v", orders.lastFilter)
	}
}
