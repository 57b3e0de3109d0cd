package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/morshidulrahman/testomg-babe/app/models"
	"github.com/morshidulrahman/testomg-babe/app/repository"
	"github.com/stripe/stripe-go/v79"
)

// Archiver stores raw webhook payloads outside the database.
type Archiver interface {
	ArchiveWebhookEvent(ctx context.Context, provider, eventID string, receivedAt time.Time, payload []byte) error
}

// PlanCache drops cached plan lookups after a plan change.
type PlanCache interface {
	InvalidatePlan(ctx context.Context, userID string) error
}

// ReceiptSender notifies a buyer about a new subscription period.
type ReceiptSender interface {
	SendSubscriptionReceipt(ctx context.Context, payment *models.Payment) error
}

// Service reconciles Stripe billing events with local users and payments.
type Service struct {
	repo         Repository
	gateway      Gateway
	catalog      PriceCatalog
	archive      Archiver
	planCache    PlanCache
	receipts     ReceiptSender
	publicDomain string
	now          func() time.Time

	receiptTimeout time.Duration
	receiptsWG     sync.WaitGroup
}

const defaultReceiptTimeout = 30 * time.Second

type Option func(*Service)

func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archive = a }
}

func WithPlanCache(c PlanCache) Option {
	return func(s *Service) { s.planCache = c }
}

func WithReceiptSender(r ReceiptSender) Option {
	return func(s *Service) { s.receipts = r }
}

// WithReceiptTimeout bounds each background receipt delivery.
func WithReceiptTimeout(d time.Duration) Option {
	return func(s *Service) { s.receiptTimeout = d }
}

// WithPublicDomain sets the base URL used for checkout and portal redirects.
func WithPublicDomain(domain string) Option {
	return func(s *Service) { s.publicDomain = strings.TrimRight(domain, "/") }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a billing service from injected dependencies.
func NewService(repo Repository, gateway Gateway, catalog PriceCatalog, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		gateway:      gateway,
		catalog:      catalog,
		publicDomain: "http://localhost:4000",
		now:          time.Now,

		receiptTimeout: defaultReceiptTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessEvent records a verified delivery and reconciles it unless the same
// event was already processed successfully. Unhandled event types are
// acknowledged without being recorded.
func (s *Service) ProcessEvent(ctx context.Context, event stripe.Event, payload []byte, deliveryID string) (EventOutcome, error) {
	// Only handled types are recorded; the rest never touch the store.
	if string(event.Type) != EventCheckoutSessionCompleted {
		log.Infof("[Billing] Unhandled event type %s", event.Type)
		return OutcomeIgnored, nil
	}

	created, stored, err := s.RecordWebhookEvent(ctx, WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(payload),
		DeliveryID:      deliveryID,
	})
	if err != nil {
		return "", fmt.Errorf("record webhook event: %w", err)
	}
	if !created && stored.ProcessedOK() {
		log.Infof("[Billing] Duplicate delivery of event %s ignored", event.ID)
		return OutcomeDuplicate, nil
	}

	if s.archive != nil {
		if err := s.archive.ArchiveWebhookEvent(ctx, models.BillingProviderStripe, stored.ProviderEventID, s.now(), payload); err != nil {
			log.Warnf("[Billing] Failed to archive event %s: %v", stored.ProviderEventID, err)
		}
	}

	outcome, handleErr := s.HandleEvent(ctx, event)
	if err := s.MarkWebhookProcessed(ctx, stored.ID, handleErr); err != nil {
		log.Errorf("[Billing] Failed to mark event %s processed: %v", stored.ProviderEventID, err)
	}
	return outcome, handleErr
}

// HandleEvent dispatches on the event type. Unknown types are ignored.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) (EventOutcome, error) {
	switch string(event.Type) {
	case EventCheckoutSessionCompleted:
		if event.Data == nil {
			return "", errors.New("event has no data")
		}
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return "", fmt.Errorf("decode checkout session: %w", err)
		}
		if cs.ID == "" {
			return "", errors.New("checkout session id missing")
		}
		if err := s.ReconcileCheckout(ctx, cs.ID); err != nil {
			return "", err
		}
		return OutcomeProcessed, nil
	default:
		log.Infof("[Billing] Unhandled event type %s", event.Type)
		return OutcomeIgnored, nil
	}
}

// ReconcileCheckout applies a completed checkout session to the buyer's user
// and payment records. Steps run in order and stop at the first error.
func (s *Service) ReconcileCheckout(ctx context.Context, sessionID string) error {
	cs, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}

	email := ""
	if cs.CustomerDetails != nil {
		email = strings.TrimSpace(cs.CustomerDetails.Email)
	}
	if email == "" {
		log.Warnf("[Billing] Checkout session %s has no customer email, skipping", sessionID)
		return nil
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !user.HasCustomer() && cs.Customer != nil && cs.Customer.ID != "" {
		if err := s.repo.UpdateUserCustomerID(ctx, user.ID, cs.Customer.ID); err != nil {
			return fmt.Errorf("store customer id: %w", err)
		}
		user.CustomerID = cs.Customer.ID
	}

	if cs.LineItems == nil {
		return nil
	}
	for _, item := range cs.LineItems.Data {
		if item == nil || item.Price == nil || item.Price.Type != stripe.PriceTypeRecurring {
			continue
		}
		tier, err := s.catalog.Resolve(item.Price.ID)
		if err != nil {
			return err
		}

		payment := paymentFromSession(cs, user, tier, s.now())
		if err := s.repo.UpsertPayment(ctx, payment); err != nil {
			return fmt.Errorf("upsert payment: %w", err)
		}
		if err := s.repo.UpdateUserPlan(ctx, user.ID, tier.Plan); err != nil {
			return fmt.Errorf("update plan: %w", err)
		}
		user.Plan = tier.Plan
		s.invalidatePlan(ctx, user.ID)

		log.Infof("[Billing] User %s subscribed to %s (%s) until %s",
			user.ID, tier.Plan, tier.Period, payment.EndDate.Format(time.RFC3339))
		s.sendReceipt(payment)
	}
	return nil
}

// sendReceipt delivers the receipt in the background with its own timeout.
func (s *Service) sendReceipt(payment *models.Payment) {
	if s.receipts == nil {
		return
	}
	cp := *payment
	s.receiptsWG.Add(1)
	go func() {
		defer s.receiptsWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.receiptTimeout)
		defer cancel()
		if err := s.receipts.SendSubscriptionReceipt(ctx, &cp); err != nil {
			log.Warnf("[Billing] Failed to send receipt to %s: %v", cp.Email, err)
		}
	}()
}

// WaitForReceipts blocks until all pending receipts are sent or given up.
func (s *Service) WaitForReceipts() {
	s.receiptsWG.Wait()
}

func paymentFromSession(cs *stripe.CheckoutSession, user *models.User, tier Tier, start time.Time) *models.Payment {
	p := &models.Payment{
		UserID:      user.ID,
		Email:       user.Email,
		StartDate:   start,
		EndDate:     tier.ExpiresAt(start),
		AmountTotal: cs.AmountTotal,
		Currency:    string(cs.Currency),
		Status:      string(cs.PaymentStatus),
		Plan:        tier.Plan,
		Period:      tier.Period,
	}
	if cs.CustomerDetails != nil {
		p.Email = cs.CustomerDetails.Email
		if addr := cs.CustomerDetails.Address; addr != nil {
			p.Country = addr.Country
			p.City = addr.City
			p.Address = addr.Line1
			p.ZipCode = addr.PostalCode
		}
	}
	if cs.Invoice != nil {
		p.TransactionID = cs.Invoice.ID
	}
	if len(cs.PaymentMethodTypes) > 0 {
		p.PaymentMethod = cs.PaymentMethodTypes[0]
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}
	return p
}

func (s *Service) invalidatePlan(ctx context.Context, userID string) {
	if s.planCache == nil {
		return
	}
	if err := s.planCache.InvalidatePlan(ctx, userID); err != nil {
		log.Warnf("[Billing] Failed to invalidate cached plan of user %s: %v", userID, err)
	}
}

// EnsureCustomer returns the user's Stripe customer, creating and storing one
// when none is linked yet.
func (s *Service) EnsureCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.HasCustomer() {
		return user.CustomerID, nil
	}
	id, err := s.gateway.CreateCustomer(ctx, user.Email, user.ID)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	if err := s.repo.UpdateUserCustomerID(ctx, user.ID, id); err != nil {
		return "", fmt.Errorf("store customer id: %w", err)
	}
	user.CustomerID = id
	return id, nil
}

// CreateCheckoutSession starts a subscription checkout and returns its URL.
func (s *Service) CreateCheckoutSession(ctx context.Context, user *models.User, period string) (string, error) {
	priceID, err := s.catalog.PriceFor(period)
	if err != nil {
		return "", err
	}
	customerID, err := s.EnsureCustomer(ctx, user)
	if err != nil {
		return "", err
	}
	return s.gateway.CreateCheckoutSession(ctx, CheckoutInput{
		CustomerID: customerID,
		PriceID:    priceID,
		UserID:     user.ID,
		SuccessURL: s.publicDomain + "/dashboard?checkout=success",
		CancelURL:  s.publicDomain + "/pricing?checkout=cancel",
	})
}

// CreatePortalSession opens the Stripe billing portal for a paying user.
func (s *Service) CreatePortalSession(ctx context.Context, user *models.User) (string, error) {
	if !user.HasCustomer() {
		return "", ErrNoCustomer
	}
	return s.gateway.CreatePortalSession(ctx, user.CustomerID, s.publicDomain+"/dashboard")
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		DeliveryID:      in.DeliveryID,
	}
	return s.repo.CreateWebhookEventIfNotExists(ctx, event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID string, processingErr error) error {
	if webhookEventID == "" {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(ctx, webhookEventID, errMsg)
}
