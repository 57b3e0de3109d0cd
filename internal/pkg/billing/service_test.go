package billing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
)

var fixedNow = time.Date(2024, 5, 15, 8, 30, 0, 0, time.UTC)

func newTestService(repo *memRepo, gw *fakeGateway, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(repo, gw, NewPriceCatalog("price_month", "price_year"), opts...)
}

func checkoutEvent(id, sessionID string) stripe.Event {
	raw, _ := json.Marshal(map[string]string{"id": sessionID, "object": "checkout.session"})
	return stripe.Event{
		ID:   id,
		Type: stripe.EventType(EventCheckoutSessionCompleted),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestReconcileCheckoutYearly(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1", Plan: models.PlanFree}
	repo := newMemRepo(user)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_year", stripe.PriceTypeRecurring),
	}}
	cache := &recordingPlanCache{}
	svc := newTestService(repo, gw, WithPlanCache(cache))

	require.NoError(t, svc.ReconcileCheckout(context.Background(), "cs_test_1"))

	stored := repo.user(user.ID)
	assert.Equal(t, "cus_123", stored.CustomerID)
	assert.Equal(t, models.PlanPremium, stored.Plan)
	assert.Equal(t, []string{user.ID}, cache.invalidated)

	p := repo.payments[user.ID]
	require.NotNil(t, p)
	assert.Equal(t, models.PlanPremium, p.Plan)
	assert.Equal(t, models.PeriodYearly, p.Period)
	assert.Equal(t, fixedNow, p.StartDate)
	assert.Equal(t, fixedNow.AddDate(1, 0, 0), p.EndDate)
	assert.Equal(t, "in_123", p.TransactionID)
	assert.Equal(t, int64(9900), p.AmountTotal)
	assert.Equal(t, "paid", p.Status)
	assert.Equal(t, "card", p.PaymentMethod)
	assert.Equal(t, "Berlin", p.City)
	assert.Equal(t, "Hauptstr. 1", p.Address)
	assert.Equal(t, "10115", p.ZipCode)
	assert.Equal(t, "DE", p.Country)
}

func TestReconcileCheckoutMonthly(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1"}
	repo := newMemRepo(user)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_month", stripe.PriceTypeRecurring),
	}}

	require.NoError(t, newTestService(repo, gw).ReconcileCheckout(context.Background(), "cs_test_1"))

	assert.Equal(t, models.PlanStandard, repo.user(user.ID).Plan)
	assert.Equal(t, fixedNow.AddDate(0, 1, 0), repo.payments[user.ID].EndDate)
	assert.Equal(t, models.PeriodMonthly, repo.payments[user.ID].Period)
}

func TestReconcileCheckoutSendsReceipt(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1"}
	repo := newMemRepo(user)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_month", stripe.PriceTypeRecurring),
	}}
	receipts := &recordingReceipts{err: errors.New("smtp down")}

	svc := newTestService(repo, gw, WithReceiptSender(receipts))

	// a failed receipt never fails reconciliation
	require.NoError(t, svc.ReconcileCheckout(context.Background(), "cs_test_1"))
	svc.WaitForReceipts()

	sent := receipts.payments()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].Email)
	assert.Equal(t, models.PlanStandard, sent[0].Plan)
	assert.Equal(t, models.PlanStandard, repo.user(user.ID).Plan)
}

func TestReconcileCheckoutDoesNotWaitForSlowReceipts(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1"}
	repo := newMemRepo(user)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_month", stripe.PriceTypeRecurring),
	}}
	receipts := &recordingReceipts{block: make(chan struct{})}
	svc := newTestService(repo, gw, WithReceiptSender(receipts), WithReceiptTimeout(50*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- svc.ReconcileCheckout(context.Background(), "cs_test_1") }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reconciliation blocked on the receipt sender")
	}
	assert.Equal(t, models.PlanStandard, repo.user(user.ID).Plan)

	// the stuck send is abandoned once its own timeout passes
	svc.WaitForReceipts()
	assert.Empty(t, receipts.payments())
}

func TestReconcileCheckoutKeepsExistingCustomer(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1", CustomerID: "cus_old"}
	repo := newMemRepo(user)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_month", stripe.PriceTypeRecurring),
	}}

	require.NoError(t, newTestService(repo, gw).ReconcileCheckout(context.Background(), "cs_test_1"))

	assert.Equal(t, "cus_old", repo.user(user.ID).CustomerID)
	assert.Zero(t, repo.customerUpdates)
}

func TestReconcileCheckoutUnknownPrice(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1"}
	repo := newMemRepo(user)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_other", stripe.PriceTypeRecurring),
	}}

	err := newTestService(repo, gw).ReconcileCheckout(context.Background(), "cs_test_1")
	assert.ErrorIs(t, err, ErrUnknownPrice)
	assert.Empty(t, repo.payments)
	// customer id was written before the failing step and stays
	assert.Equal(t, "cus_123", repo.user(user.ID).CustomerID)
}

func TestReconcileCheckoutUserNotFound(t *testing.T) {
	repo := newMemRepo()
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("ghost@example.com", "price_month", stripe.PriceTypeRecurring),
	}}

	err := newTestService(repo, gw).ReconcileCheckout(context.Background(), "cs_test_1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestReconcileCheckoutSkipsNonRecurring(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1"}
	repo := newMemRepo(user)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_other", stripe.PriceTypeOneTime),
	}}

	require.NoError(t, newTestService(repo, gw).ReconcileCheckout(context.Background(), "cs_test_1"))
	assert.Empty(t, repo.payments)
	assert.Equal(t, "", repo.user(user.ID).Plan)
}

func TestReconcileCheckoutWithoutEmail(t *testing.T) {
	repo := newMemRepo()
	cs := checkoutSession("", "price_month", stripe.PriceTypeRecurring)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{"cs_test_1": cs}}

	require.NoError(t, newTestService(repo, gw).ReconcileCheckout(context.Background(), "cs_test_1"))
	assert.Empty(t, repo.payments)
}

func TestReconcileCheckoutUpsertFailure(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1"}
	repo := newMemRepo(user)
	repo.upsertErr = errors.New("db down")
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_month", stripe.PriceTypeRecurring),
	}}

	err := newTestService(repo, gw).ReconcileCheckout(context.Background(), "cs_test_1")
	assert.Error(t, err)
	assert.Equal(t, "", repo.user(user.ID).Plan)
}

func TestHandleEventIgnoresUnknownTypes(t *testing.T) {
	repo := newMemRepo()
	gw := &fakeGateway{}
	svc := newTestService(repo, gw)

	outcome, err := svc.HandleEvent(context.Background(), stripe.Event{ID: "evt_1", Type: "invoice.paid"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Zero(t, gw.fetches)
}

func TestProcessEventIgnoresUnknownTypeWithoutStore(t *testing.T) {
	repo := newMemRepo()
	repo.createErr = errors.New("db down")
	archive := &recordingArchiver{}
	gw := &fakeGateway{}
	svc := newTestService(repo, gw, WithArchiver(archive))

	outcome, err := svc.ProcessEvent(context.Background(), stripe.Event{ID: "evt_9", Type: "invoice.paid"}, []byte(`{}`), "d1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, archive.ids)
	assert.Zero(t, gw.fetches)
}

func TestProcessEventStoreFailure(t *testing.T) {
	repo := newMemRepo()
	repo.createErr = errors.New("db down")
	svc := newTestService(repo, &fakeGateway{})

	_, err := svc.ProcessEvent(context.Background(), checkoutEvent("evt_10", "cs_test_1"), []byte(`{}`), "d1")
	assert.ErrorContains(t, err, "db down")
}

func TestProcessEventDeduplicates(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1"}
	repo := newMemRepo(user)
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("jane@example.com", "price_year", stripe.PriceTypeRecurring),
	}}
	archive := &recordingArchiver{}
	svc := newTestService(repo, gw, WithArchiver(archive))
	event := checkoutEvent("evt_1", "cs_test_1")

	outcome, err := svc.ProcessEvent(context.Background(), event, []byte(`{}`), "delivery-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, outcome)

	outcome, err = svc.ProcessEvent(context.Background(), event, []byte(`{}`), "delivery-2")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)

	assert.Equal(t, 1, gw.fetches)
	assert.Equal(t, []string{"evt_1"}, archive.ids)
}

func TestProcessEventRetriesFailedDelivery(t *testing.T) {
	repo := newMemRepo()
	gw := &fakeGateway{sessions: map[string]*stripe.CheckoutSession{
		"cs_test_1": checkoutSession("late@example.com", "price_month", stripe.PriceTypeRecurring),
	}}
	archive := &recordingArchiver{err: errors.New("s3 down")}
	svc := newTestService(repo, gw, WithArchiver(archive))
	event := checkoutEvent("evt_2", "cs_test_1")

	_, err := svc.ProcessEvent(context.Background(), event, []byte(`{}`), "d1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// the user signs up, Stripe redelivers
	user := &models.User{Email: "late@example.com", ExternalID: "user_late"}
	user.EnsureID()
	repo.users[user.ID] = user

	outcome, err := svc.ProcessEvent(context.Background(), event, []byte(`{}`), "d2")
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, outcome)
	assert.Equal(t, 2, gw.fetches)
	assert.Equal(t, models.PlanStandard, repo.user(user.ID).Plan)
}

func TestRecordWebhookEventHashesMissingID(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &fakeGateway{})

	created, stored, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "Stripe",
		PayloadJSON: `{"a":1}`,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "stripe", stored.Provider)
	assert.Contains(t, stored.ProviderEventID, "hash:")

	_, _, err = svc.RecordWebhookEvent(context.Background(), WebhookEventInput{})
	assert.Error(t, err)
}

func TestCreateCheckoutSessionEnsuresCustomer(t *testing.T) {
	user := &models.User{Email: "jane@example.com", ExternalID: "user_1"}
	repo := newMemRepo(user)
	gw := &fakeGateway{}
	svc := newTestService(repo, gw, WithPublicDomain("https://app.example.com/"))

	url, err := svc.CreateCheckoutSession(context.Background(), user, "yearly")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/price_year", url)
	assert.Equal(t, 1, gw.customers)
	assert.Equal(t, "cus_new", repo.user(user.ID).CustomerID)

	require.Len(t, gw.checkouts, 1)
	assert.Equal(t, "cus_new", gw.checkouts[0].CustomerID)
	assert.Equal(t, "https://app.example.com/dashboard?checkout=success", gw.checkouts[0].SuccessURL)

	// second checkout reuses the customer
	_, err = svc.CreateCheckoutSession(context.Background(), user, "monthly")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.customers)

	_, err = svc.CreateCheckoutSession(context.Background(), user, "weekly")
	assert.ErrorIs(t, err, ErrUnknownPrice)
}

func TestCreatePortalSession(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(newMemRepo(), gw)

	_, err := svc.CreatePortalSession(context.Background(), &models.User{})
	assert.ErrorIs(t, err, ErrNoCustomer)

	url, err := svc.CreatePortalSession(context.Background(), &models.User{CustomerID: "cus_9"})
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.test/cus_9", url)
}
