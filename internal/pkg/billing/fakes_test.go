package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/morshidulrahman/testomg-babe/app/repository"
	"github.com/stripe/stripe-go/v79"
)

type memRepo struct {
	mu       sync.Mutex
	users    map[string]*models.User
	payments map[string]*models.Payment
	events   map[string]*models.BillingWebhookEvent

	customerUpdates int
	upsertErr       error
	createErr       error
}

func newMemRepo(users ...*models.User) *memRepo {
	r := &memRepo{
		users:    map[string]*models.User{},
		payments: map[string]*models.Payment{},
		events:   map[string]*models.BillingWebhookEvent{},
	}
	for _, u := range users {
		u.EnsureID()
		r.users[u.ID] = u
	}
	return r
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) UpdateUserCustomerID(_ context.Context, userID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	r.customerUpdates++
	u.CustomerID = customerID
	return nil
}

func (r *memRepo) UpdateUserPlan(_ context.Context, userID, plan string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Plan = plan
	return nil
}

func (r *memRepo) UpsertPayment(_ context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	cp := *payment
	r.payments[payment.UserID] = &cp
	return nil
}

func (r *memRepo) CreateWebhookEventIfNotExists(_ context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return false, nil, r.createErr
	}
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := r.events[key]; ok {
		cp := *existing
		return false, &cp, nil
	}
	event.EnsureID()
	cp := *event
	r.events[key] = &cp
	return true, event, nil
}

func (r *memRepo) MarkWebhookProcessed(_ context.Context, id string, processingError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.ProcessingError = processingError
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memRepo) user(id string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeGateway struct {
	sessions  map[string]*stripe.CheckoutSession
	fetches   int
	customers int
	checkouts []CheckoutInput
	portals   []string
}

func (g *fakeGateway) GetCheckoutSession(_ context.Context, id string) (*stripe.CheckoutSession, error) {
	g.fetches++
	cs, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	return cs, nil
}

func (g *fakeGateway) CreateCustomer(_ context.Context, email, userID string) (string, error) {
	g.customers++
	return "cus_new", nil
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, in CheckoutInput) (string, error) {
	g.checkouts = append(g.checkouts, in)
	return "https://checkout.stripe.test/" + in.PriceID, nil
}

func (g *fakeGateway) CreatePortalSession(_ context.Context, customerID, returnURL string) (string, error) {
	g.portals = append(g.portals, customerID)
	return "https://billing.stripe.test/" + customerID, nil
}

type recordingArchiver struct {
	ids []string
	err error
}

func (a *recordingArchiver) ArchiveWebhookEvent(_ context.Context, _ string, eventID string, _ time.Time, _ []byte) error {
	a.ids = append(a.ids, eventID)
	return a.err
}

type recordingPlanCache struct {
	invalidated []string
}

func (c *recordingPlanCache) InvalidatePlan(_ context.Context, userID string) error {
	c.invalidated = append(c.invalidated, userID)
	return nil
}

func checkoutSession(email, priceID string, priceType stripe.PriceType) *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:       "cs_test_1",
		Customer: &stripe.Customer{ID: "cus_123"},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: email,
			Address: &stripe.Address{
				City:       "Berlin",
				Country:    "DE",
				Line1:      "Hauptstr. 1",
				PostalCode: "10115",
			},
		},
		LineItems: &stripe.LineItemList{
			Data: []*stripe.LineItem{
				{Price: &stripe.Price{ID: priceID, Type: priceType}},
			},
		},
		Invoice:            &stripe.Invoice{ID: "in_123"},
		AmountTotal:        9900,
		Currency:           stripe.CurrencyUSD,
		PaymentStatus:      stripe.CheckoutSessionPaymentStatusPaid,
		PaymentMethodTypes: []string{"card"},
	}
}

type recordingReceipts struct {
	mu   sync.Mutex
	sent []*models.Payment
	err  error

	// block holds each send until it is closed or the context ends.
	block chan struct{}
}

func (r *recordingReceipts) SendSubscriptionReceipt(ctx context.Context, payment *models.Payment) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, payment)
	return r.err
}

func (r *recordingReceipts) payments() []*models.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Payment(nil), r.sent...)
}
