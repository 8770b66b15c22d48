package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	catalogtransport "inkstitch_backend/internal/catalog/transport"
	"inkstitch_backend/internal/costs/calculator"
	"inkstitch_backend/internal/events"
	"inkstitch_backend/internal/pricing/engine"
	"inkstitch_backend/internal/quotes/repository"
	"inkstitch_backend/internal/quotes/session"
	"inkstitch_backend/internal/quotes/transport"
	servicestransport "inkstitch_backend/internal/services/transport"
	"inkstitch_backend/platform/apperr"
	"inkstitch_backend/platform/logger"
)

type fakePricing struct{}

func (fakePricing) Engine(ctx context.Context) (*engine.Engine, error) {
	return engine.New(engine.DefaultDiscountPolicy(), engine.MarkupPolicy{Percentage: 50}), nil
}

type fakeCatalog struct {
	products map[uuid.UUID]catalogtransport.ProductResponse
}

func (f fakeCatalog) GetByID(ctx context.Context, id uuid.UUID) (catalogtransport.ProductResponse, error) {
	p, ok := f.products[id]
	if !ok {
		return catalogtransport.ProductResponse{}, apperr.NotFound("product not found")
	}
	return p, nil
}

type fakeServices struct {
	services map[string]servicestransport.ServiceResponse
}

func (f fakeServices) GetByID(ctx context.Context, id string) (servicestransport.ServiceResponse, error) {
	s, ok := f.services[id]
	if !ok {
		return servicestransport.ServiceResponse{}, apperr.NotFound("service not found")
	}
	return s, nil
}

type fakeProfit struct{}

func (fakeProfit) QuoteProfit(ctx context.Context, items []engine.LineItem) calculator.QuoteProfit {
	return calculator.QuoteProfit{LineItems: []calculator.LineItemResult{}}
}

type fakeRepo struct {
	quotes map[uuid.UUID]repository.Quote
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{quotes: map[uuid.UUID]repository.Quote{}}
}

func (f *fakeRepo) Save(ctx context.Context, quote repository.Quote) error {
	existing, ok := f.quotes[quote.ID]
	if ok {
		quote.PublicToken = existing.PublicToken
		quote.SentAt = existing.SentAt
		quote.ViewedAt = existing.ViewedAt
		quote.CreatedAt = existing.CreatedAt
	} else {
		quote.CreatedAt = time.Now()
	}
	quote.UpdatedAt = time.Now()
	f.quotes[quote.ID] = quote
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return repository.Quote{}, apperr.NotFound("quote not found")
	}
	return q, nil
}

func (f *fakeRepo) GetByPublicToken(ctx context.Context, token string) (repository.Quote, error) {
	for _, q := range f.quotes {
		if q.PublicToken != nil && *q.PublicToken == token {
			return q, nil
		}
	}
	return repository.Quote{}, apperr.NotFound("quote not found")
}

func (f *fakeRepo) List(ctx context.Context, filters repository.ListFilters) ([]repository.Summary, int, error) {
	return nil, len(f.quotes), nil
}

func (f *fakeRepo) MarkSent(ctx context.Context, id uuid.UUID, token string, validUntil time.Time) error {
	q, ok := f.quotes[id]
	if !ok {
		return apperr.NotFound("quote not found")
	}
	now := time.Now()
	q.Status = repository.StatusSent
	q.PublicToken = &token
	q.SentAt = &now
	q.ValidUntil = validUntil
	f.quotes[id] = q
	return nil
}

func (f *fakeRepo) MarkViewed(ctx context.Context, id uuid.UUID) error {
	q, ok := f.quotes[id]
	if !ok {
		return apperr.NotFound("quote not found")
	}
	now := time.Now()
	q.Status = repository.StatusViewed
	if q.ViewedAt == nil {
		q.ViewedAt = &now
	}
	f.quotes[id] = q
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.quotes, id)
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event)          { b.published = append(b.published, event) }
func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error { b.published = append(b.published, event); return nil }
func (b *recordingBus) Subscribe(eventName string, handler events.Handler)        {}

type linkConfig struct{}

func (linkConfig) GetAppBaseURL() string { return "https://quotes.inkstitchpress.co.uk/" }

var (
	tshirtID = uuid.New()
	hoodieID = uuid.New()
)

func newTestService(t *testing.T) (*Service, *fakeRepo, *recordingBus) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.New(client, time.Hour)

	repo := newFakeRepo()
	bus := &recordingBus{}

	catalog := fakeCatalog{products: map[uuid.UUID]catalogtransport.ProductResponse{
		tshirtID: {
			ID:           tshirtID,
			Supplier:     "Stanley Stella",
			ProductGroup: "Creator",
			ProductName:  "Creator T-Shirt",
			BasePrice:    10,
		},
		hoodieID: {
			ID:           hoodieID,
			Supplier:     "Stanley Stella",
			ProductGroup: "Creator",
			ProductName:  "Creator Hoodie",
			BasePrice:    10,
		},
	}}

	decorations := fakeServices{services: map[string]servicestransport.ServiceResponse{
		"print_1_small": {ID: "print_1_small", Kind: "printing", Name: "1 Small Print", Price: 0.95},
		"emb_1_small":   {ID: "emb_1_small", Kind: "embroidery", Name: "1 Small Logo", Price: 5},
	}}

	svc := New(sessions, repo, fakePricing{}, catalog, decorations, fakeProfit{}, bus, linkConfig{}, logger.New("test"))
	return svc, repo, bus
}

func TestAddProductLineGroupDiscount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	got, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: tshirtID, Quantity: 60})
	if err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}
	if got.Items[0].DiscountPercent != 15 {
		t.Errorf("single line discount = %v, want 15", got.Items[0].DiscountPercent)
	}

	// The second line pushes the group to 100, upgrading both lines to 20%.
	got, err = svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: hoodieID, Quantity: 40})
	if err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(got.Items))
	}
	for _, item := range got.Items {
		if item.DiscountPercent != 20 {
			t.Errorf("discount for %s = %v, want 20", item.ProductName, item.DiscountPercent)
		}
	}
	if got.Items[0].TotalPrice != 720.00 {
		t.Errorf("first line total = %v, want 720.00", got.Items[0].TotalPrice)
	}
	if got.Items[1].TotalPrice != 480.00 {
		t.Errorf("second line total = %v, want 480.00", got.Items[1].TotalPrice)
	}
	if got.TotalPrice != 1200.00 {
		t.Errorf("quote total = %v, want 1200.00", got.TotalPrice)
	}
}

func TestAddProductLineWithAttachedPrinting(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	got, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{
		ProductID:         tshirtID,
		Quantity:          30,
		PrintingServiceID: "print_1_small",
	})
	if err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}

	item := got.Items[0]
	if item.Printing == nil {
		t.Fatal("printing charge not attached")
	}
	// 30 units of the 0.95 printing service land in the 10% bracket:
	// 0.95 x 30 x 0.90 = 25.65. No markup on services.
	if item.Printing.TotalPrice != 25.65 {
		t.Errorf("printing total = %v, want 25.65", item.Printing.TotalPrice)
	}
	// 30 units at 15.00 with 10% discount is 405.00, plus printing.
	if item.ProductTotalPrice != 405.00 {
		t.Errorf("product total = %v, want 405.00", item.ProductTotalPrice)
	}
	if item.TotalPrice != 430.65 {
		t.Errorf("line total = %v, want 430.65", item.TotalPrice)
	}
}

func TestAddProductLineRejectsWrongServiceKind(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddProductLine(context.Background(), uuid.New(), transport.AddProductLineRequest{
		ProductID:         tshirtID,
		Quantity:          10,
		PrintingServiceID: "emb_1_small",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestAddServiceLineOwnQuantityDiscount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	// A large product group must not influence the standalone service line.
	if _, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: tshirtID, Quantity: 200}); err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}

	got, err := svc.AddServiceLine(ctx, userID, transport.AddServiceLineRequest{ServiceID: "emb_1_small", Quantity: 12})
	if err != nil {
		t.Fatalf("AddServiceLine: %v", err)
	}

	// The add runs a full repricing pass; the product line must keep its
	// own group tier and the service line must not be pulled into it.
	if got.Items[0].DiscountPercent != 20 {
		t.Errorf("product discount = %v, want 20", got.Items[0].DiscountPercent)
	}

	line := got.Items[1]
	if line.Kind != engine.KindService {
		t.Fatalf("kind = %v, want service", line.Kind)
	}
	if line.DiscountPercent != 5 {
		t.Errorf("discount = %v, want 5 (own quantity tier)", line.DiscountPercent)
	}
	if line.TotalPrice != 57.00 {
		t.Errorf("total = %v, want 57.00", line.TotalPrice)
	}
	if line.MarkupPercent != 0 {
		t.Errorf("markup = %v, want 0", line.MarkupPercent)
	}
}

func TestUpdateLineRescalesAttachedCharges(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	got, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{
		ProductID:         tshirtID,
		Quantity:          30,
		PrintingServiceID: "print_1_small",
	})
	if err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}
	lineID := got.Items[0].ID

	got, err = svc.UpdateLine(ctx, userID, lineID, transport.UpdateLineRequest{Quantity: 60})
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}

	item := got.Items[0]
	if item.ID != lineID {
		t.Error("line ID changed on update")
	}
	if item.DiscountPercent != 15 {
		t.Errorf("discount = %v, want 15", item.DiscountPercent)
	}
	// The printing charge moves into the 15% bracket with the garment:
	// 0.95 x 60 x 0.85 = 48.45.
	if item.Printing.TotalPrice != 48.45 {
		t.Errorf("printing total = %v, want 48.45", item.Printing.TotalPrice)
	}
	// 60 units at 15.00 with 15% discount is 765.00, plus printing.
	if item.TotalPrice != 813.45 {
		t.Errorf("line total = %v, want 813.45", item.TotalPrice)
	}
}

func TestRemoveLineDowngradesGroupDiscount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: tshirtID, Quantity: 60}); err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}
	got, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: hoodieID, Quantity: 40})
	if err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}

	got, err = svc.RemoveLine(ctx, userID, got.Items[1].ID)
	if err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(got.Items))
	}
	if got.Items[0].DiscountPercent != 15 {
		t.Errorf("discount = %v, want 15 after group shrank to 60", got.Items[0].DiscountPercent)
	}
}

func TestSaveWorkingRequiresCustomerName(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: tshirtID, Quantity: 10}); err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}

	_, err := svc.SaveWorking(ctx, userID)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestSaveWorkingPersistsAndResaves(t *testing.T) {
	svc, repo, bus := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: tshirtID, Quantity: 10}); err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}
	if _, err := svc.SetCustomer(ctx, userID, transport.SetCustomerRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "orders@acme.test",
	}); err != nil {
		t.Fatalf("SetCustomer: %v", err)
	}

	saved, err := svc.SaveWorking(ctx, userID)
	if err != nil {
		t.Fatalf("SaveWorking: %v", err)
	}
	if saved.Status != repository.StatusDraft {
		t.Errorf("status = %q, want draft", saved.Status)
	}
	if len(repo.quotes) != 1 {
		t.Fatalf("quotes persisted = %d, want 1", len(repo.quotes))
	}

	var sawSaved bool
	for _, ev := range bus.published {
		if _, ok := ev.(events.QuoteSaved); ok {
			sawSaved = true
		}
	}
	if !sawSaved {
		t.Error("QuoteSaved event not published")
	}

	// Editing and re-saving must update the same quote.
	if _, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: hoodieID, Quantity: 5}); err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}
	resaved, err := svc.SaveWorking(ctx, userID)
	if err != nil {
		t.Fatalf("SaveWorking again: %v", err)
	}
	if resaved.ID != saved.ID {
		t.Errorf("re-save created a new quote: %s vs %s", resaved.ID, saved.ID)
	}
	if len(repo.quotes) != 1 {
		t.Errorf("quotes persisted = %d, want 1 after re-save", len(repo.quotes))
	}
}

func TestSendAndPublicView(t *testing.T) {
	svc, repo, bus := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: tshirtID, Quantity: 10}); err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}
	if _, err := svc.SetCustomer(ctx, userID, transport.SetCustomerRequest{
		CustomerName:  "Acme Ltd",
		CustomerEmail: "orders@acme.test",
	}); err != nil {
		t.Fatalf("SetCustomer: %v", err)
	}
	saved, err := svc.SaveWorking(ctx, userID)
	if err != nil {
		t.Fatalf("SaveWorking: %v", err)
	}

	sent, err := svc.Send(ctx, saved.ID, transport.SendQuoteRequest{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent.Status != repository.StatusSent {
		t.Errorf("status = %q, want sent", sent.Status)
	}
	if sent.PublicURL == "" {
		t.Fatal("public URL missing after send")
	}

	stored := repo.quotes[saved.ID]
	if stored.PublicToken == nil {
		t.Fatal("public token not persisted")
	}

	view, err := svc.PublicByToken(ctx, *stored.PublicToken, "203.0.113.9")
	if err != nil {
		t.Fatalf("PublicByToken: %v", err)
	}
	if view.Reference != saved.Reference {
		t.Errorf("reference = %q, want %q", view.Reference, saved.Reference)
	}
	if view.Expired {
		t.Error("fresh quote reported as expired")
	}

	var sawViewed bool
	for _, ev := range bus.published {
		if _, ok := ev.(events.QuoteViewed); ok {
			sawViewed = true
		}
	}
	if !sawViewed {
		t.Error("QuoteViewed event not published on first view")
	}
	if repo.quotes[saved.ID].Status != repository.StatusViewed {
		t.Errorf("status = %q, want viewed", repo.quotes[saved.ID].Status)
	}
}

func TestVATRegisteredCustomerAddsVATToTotal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	// 10 shirts at base 10: markup 50% -> 15, bracket discount 5% -> 142.50.
	if _, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: tshirtID, Quantity: 10}); err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}

	working, err := svc.SetCustomer(ctx, userID, transport.SetCustomerRequest{
		CustomerName:  "Acme Ltd",
		VATRegistered: true,
		VATRate:       20,
	})
	if err != nil {
		t.Fatalf("SetCustomer: %v", err)
	}
	if working.Subtotal != 142.50 {
		t.Errorf("subtotal = %v, want 142.50", working.Subtotal)
	}
	if working.VATAmount != 28.50 {
		t.Errorf("vat = %v, want 28.50", working.VATAmount)
	}
	if working.TotalPrice != 171.00 {
		t.Errorf("total = %v, want 171.00", working.TotalPrice)
	}

	saved, err := svc.SaveWorking(ctx, userID)
	if err != nil {
		t.Fatalf("SaveWorking: %v", err)
	}
	if saved.TotalPrice != 171.00 {
		t.Errorf("saved total = %v, want 171.00", saved.TotalPrice)
	}
	if saved.VATAmount != 28.50 {
		t.Errorf("saved vat = %v, want 28.50", saved.VATAmount)
	}

	// Clearing the registered flag drops the rate with it.
	working, err = svc.SetCustomer(ctx, userID, transport.SetCustomerRequest{
		CustomerName: "Acme Ltd",
		VATRate:      20,
	})
	if err != nil {
		t.Fatalf("SetCustomer: %v", err)
	}
	if working.VATRate != 0 || working.VATAmount != 0 {
		t.Errorf("vat rate/amount = %v/%v, want 0/0 when not registered", working.VATRate, working.VATAmount)
	}
	if working.TotalPrice != 142.50 {
		t.Errorf("total = %v, want 142.50", working.TotalPrice)
	}
}

func TestSendWithoutEmailFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.AddProductLine(ctx, userID, transport.AddProductLineRequest{ProductID: tshirtID, Quantity: 10}); err != nil {
		t.Fatalf("AddProductLine: %v", err)
	}
	if _, err := svc.SetCustomer(ctx, userID, transport.SetCustomerRequest{CustomerName: "Acme Ltd"}); err != nil {
		t.Fatalf("SetCustomer: %v", err)
	}
	saved, err := svc.SaveWorking(ctx, userID)
	if err != nil {
		t.Fatalf("SaveWorking: %v", err)
	}

	if _, err := svc.Send(ctx, saved.ID, transport.SendQuoteRequest{}); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}
