package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/order-resolution-service/internal/config"
	"github.com/spec-kit/order-resolution-service/internal/domain"
	"github.com/spec-kit/order-resolution-service/internal/events"
	"github.com/spec-kit/order-resolution-service/internal/matcher"
	"github.com/spec-kit/order-resolution-service/internal/observability"
	"github.com/spec-kit/order-resolution-service/internal/repository"
	"github.com/spec-kit/order-resolution-service/internal/shipment"
	"github.com/spec-kit/order-resolution-service/pkg/clock"
	apperrors "github.com/spec-kit/order-resolution-service/pkg/util/errorutil"
)

// ErrOrderNotFound is returned by providers that cannot find an order.
var ErrOrderNotFound = errors.New("order not found")

// OrderHistoryProvider lists a customer's recent orders, newest first.
type OrderHistoryProvider interface {
	ListOrders(ctx context.Context, customerEmail string) ([]domain.OrderCandidate, error)
}

// FulfillmentProvider loads the shipments of a single order.
type FulfillmentProvider interface {
	GetOrderFulfillment(ctx context.Context, orderNumber int64) (*domain.OrderFulfillment, error)
}

// DeliveryDeduplicator remembers webhook deliveries. ClaimDelivery returns
// false if key was already claimed within ttl.
type DeliveryDeduplicator interface {
	ClaimDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ResolutionService runs the webhook pipeline around the matching engine.
type ResolutionService struct {
	orders       OrderHistoryProvider
	fulfillments FulfillmentProvider
	dedup        DeliveryDeduplicator
	resolutions  repository.ResolutionRepository
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	clock        clock.Clock
	logger       *zap.Logger
	cfg          config.ResolutionConfig
}

// ResolutionDependencies bundles collaborators for the resolution service.
// Every field except Clock and Logger may be nil.
type ResolutionDependencies struct {
	Orders         OrderHistoryProvider
	Fulfillments   FulfillmentProvider
	Dedup          DeliveryDeduplicator
	ResolutionRepo repository.ResolutionRepository
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Clock          clock.Clock
	Logger         *zap.Logger
}

// NewResolutionService wires the service.
func NewResolutionService(cfg config.ResolutionConfig, deps ResolutionDependencies) *ResolutionService {
	if deps.Clock == nil {
		deps.Clock = clock.NewReal()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ResolutionService{
		orders:       deps.Orders,
		fulfillments: deps.Fulfillments,
		dedup:        deps.Dedup,
		resolutions:  deps.ResolutionRepo,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		clock:        deps.Clock,
		logger:       deps.Logger,
		cfg:          cfg,
	}
}

// TicketResolutionInput is a validated webhook delivery.
type TicketResolutionInput struct {
	Ticket domain.Ticket
	// EmbeddedOrders are orders the helpdesk attached to the payload. When
	// present they replace the order history lookup.
	EmbeddedOrders []domain.OrderCandidate
	// Warnings describe payload data that was skipped while building the input.
	Warnings []string
}

// DeliveryKey identifies one webhook delivery for deduplication. It reports
// false when the delivery carries no message id, since such deliveries cannot
// be told apart from later ones on the same ticket.
func (in TicketResolutionInput) DeliveryKey() (string, bool) {
	if strings.TrimSpace(in.Ticket.MessageID) == "" {
		return "", false
	}
	return in.Ticket.ID + ":" + in.Ticket.MessageID, true
}

// ResolveTicket resolves the order a ticket refers to and summarizes its
// shipments. Provider failures degrade the result instead of failing it;
// only a duplicate delivery or invalid input returns an error.
func (s *ResolutionService) ResolveTicket(ctx context.Context, in TicketResolutionInput) (*domain.ResolutionResult, error) {
	if strings.TrimSpace(in.Ticket.ID) == "" {
		return nil, apperrors.NewValidationError("ticket id required", nil)
	}
	logger := s.logger.With(zap.String("ticket_id", in.Ticket.ID))

	if err := s.claim(ctx, in, logger); err != nil {
		return nil, err
	}

	warnings := append([]string(nil), in.Warnings...)
	candidates, warn := s.candidates(ctx, in, logger)
	if warn != "" {
		warnings = append(warnings, warn)
	}

	now := s.clock.Now()
	resolved := matcher.Resolve(in.Ticket, candidates, now)
	result := &domain.ResolutionResult{ResolvedOrder: resolved}

	if resolved.Matched {
		summary, warn := s.summarize(ctx, resolved.OrderNumber, candidates, logger)
		result.FulfillmentSummary = summary
		if warn != "" {
			warnings = append(warnings, warn)
		}
	}

	logger.Info("ticket resolved",
		zap.Bool("matched", resolved.Matched),
		zap.Int64("order_number", resolved.OrderNumber),
		zap.String("method", string(resolved.Method)),
		zap.Int("candidates", len(candidates)),
		zap.Strings("warnings", warnings),
	)

	s.persist(ctx, in, result, len(candidates), warnings, now, logger)
	s.publish(ctx, in.Ticket.ID, result, len(candidates), warnings, now, logger)
	s.metrics.RecordResolution(resolved.Method, isSplit(result))
	return result, nil
}

// GetLatestResolution returns the most recent audit record for a ticket.
func (s *ResolutionService) GetLatestResolution(ctx context.Context, ticketID string) (*domain.Resolution, error) {
	if s.resolutions == nil {
		return nil, apperrors.NewNotFound("resolution", map[string]any{"ticket_id": ticketID, "reason": "persistence disabled"})
	}
	resolution, err := s.resolutions.GetLatestByTicket(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("resolution", map[string]any{"ticket_id": ticketID})
	}
	if err != nil {
		return nil, err
	}
	return resolution, nil
}

func (s *ResolutionService) claim(ctx context.Context, in TicketResolutionInput, logger *zap.Logger) error {
	if s.dedup == nil {
		return nil
	}
	key, ok := in.DeliveryKey()
	if !ok {
		logger.Debug("delivery has no message id; skipping dedup")
		return nil
	}
	claimed, err := s.dedup.ClaimDelivery(ctx, key, s.cfg.DedupTTL())
	if err != nil {
		logger.Warn("delivery dedup unavailable; processing anyway", zap.Error(err))
		s.metrics.RecordDegraded("dedup")
		return nil
	}
	if !claimed {
		return apperrors.NewConflict("webhook delivery already processed", map[string]any{
			"ticket_id":  in.Ticket.ID,
			"message_id": in.Ticket.MessageID,
		})
	}
	return nil
}

func (s *ResolutionService) candidates(ctx context.Context, in TicketResolutionInput, logger *zap.Logger) ([]domain.OrderCandidate, string) {
	if len(in.EmbeddedOrders) > 0 {
		return in.EmbeddedOrders, ""
	}
	if s.orders == nil || strings.TrimSpace(in.Ticket.CustomerEmail) == "" {
		return nil, ""
	}

	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()
	orders, err := s.orders.ListOrders(fetchCtx, in.Ticket.CustomerEmail)
	if err != nil {
		logger.Warn("order history unavailable", zap.Error(err))
		s.metrics.RecordDegraded("order_history")
		return nil, fmt.Sprintf("order_history: %v", err)
	}
	return orders, ""
}

func (s *ResolutionService) summarize(ctx context.Context, orderNumber int64, candidates []domain.OrderCandidate, logger *zap.Logger) (*domain.FulfillmentSummary, string) {
	if s.fulfillments == nil {
		return nil, ""
	}

	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()
	fulfillment, err := s.fulfillments.GetOrderFulfillment(fetchCtx, orderNumber)
	if err != nil {
		logger.Warn("fulfillment unavailable", zap.Int64("order_number", orderNumber), zap.Error(err))
		s.metrics.RecordDegraded("fulfillment")
		return nil, fmt.Sprintf("fulfillment: %v", err)
	}
	if fulfillment == nil {
		return nil, ""
	}

	lineItems := fulfillment.LineItems
	if len(lineItems) == 0 {
		lineItems = candidateLineItems(candidates, orderNumber)
	}
	summary := shipment.Summarize(orderNumber, fulfillment.Records, lineItems)
	return &summary, ""
}

func (s *ResolutionService) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := s.cfg.FetchTimeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func (s *ResolutionService) persist(ctx context.Context, in TicketResolutionInput, result *domain.ResolutionResult, candidateCount int, warnings []string, now time.Time, logger *zap.Logger) {
	if !s.cfg.Persist || s.resolutions == nil {
		return
	}
	record := &domain.Resolution{
		ID:               uuid.NewString(),
		TicketID:         in.Ticket.ID,
		MessageID:        in.Ticket.MessageID,
		Matched:          result.ResolvedOrder.Matched,
		Method:           result.ResolvedOrder.Method,
		IsSplit:          isSplit(result),
		CandidateCount:   candidateCount,
		Result:           *result,
		UpstreamWarnings: warnings,
		CreatedAt:        now,
	}
	if record.Matched {
		number := result.ResolvedOrder.OrderNumber
		record.OrderNumber = &number
	}
	if err := s.resolutions.Create(ctx, record); err != nil {
		logger.Error("failed to persist resolution", zap.Error(err))
	}
}

func (s *ResolutionService) publish(ctx context.Context, ticketID string, result *domain.ResolutionResult, candidateCount int, warnings []string, now time.Time, logger *zap.Logger) {
	if s.dispatcher == nil {
		return
	}
	resolved := result.ResolvedOrder

	var batch []events.Event
	if resolved.Matched {
		batch = append(batch, events.New(events.EventOrderResolved, ticketID, now, events.OrderResolvedPayload{
			OrderNumber: resolved.OrderNumber,
			Method:      resolved.Method,
			Rationale:   resolved.Rationale,
			Summary:     result.FulfillmentSummary,
		}))
	} else {
		batch = append(batch, events.New(events.EventOrderUnresolved, ticketID, now, events.OrderUnresolvedPayload{
			CandidateCount: candidateCount,
			Warnings:       warnings,
		}))
	}
	if isSplit(result) {
		summary := *result.FulfillmentSummary
		batch = append(batch, events.New(events.EventSplitShipmentDetected, ticketID, now, events.SplitShipmentDetectedPayload{
			OrderNumber:   resolved.OrderNumber,
			GroupCount:    len(summary.Groups),
			LocationCount: summary.LocationCount,
			Summary:       summary,
		}))
	}

	for _, event := range batch {
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
}

func isSplit(result *domain.ResolutionResult) bool {
	return result.FulfillmentSummary != nil && result.FulfillmentSummary.IsSplit
}

func candidateLineItems(candidates []domain.OrderCandidate, orderNumber int64) []domain.LineItem {
	for _, c := range candidates {
		if c.OrderNumber == orderNumber {
			return c.LineItems
		}
	}
	return nil
}
