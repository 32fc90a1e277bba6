package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/order-resolution-service/internal/config"
	"github.com/spec-kit/order-resolution-service/internal/domain"
	"github.com/spec-kit/order-resolution-service/internal/events"
)

// NotificationService turns resolution events into agent notes and delivers
// them to the configured webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
}

// NotePayload is the body posted to NOTIFY_WEBHOOK_URL.
type NotePayload struct {
	TicketID    string           `json:"ticket_id"`
	EventType   events.EventType `json:"event_type"`
	OrderNumber int64            `json:"order_number"`
	BodyText    string           `json:"body_text"`
	BodyHTML    string           `json:"body_html"`
	AIContext   string           `json:"ai_context"`
	IsSplit     bool             `json:"is_split"`
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil || !n.cfg.InternalNotes {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderResolved, n.handleOrderResolved)
	n.dispatcher.Subscribe(events.EventOrderUnresolved, n.handleOrderUnresolved)
	n.dispatcher.Subscribe(events.EventSplitShipmentDetected, n.handleSplitShipmentDetected)
}

func (n *NotificationService) handleOrderResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderResolvedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("OrderResolved",
		zap.String("ticket_id", event.TicketID),
		zap.Int64("order_number", payload.OrderNumber),
		zap.String("method", string(payload.Method)))

	// Split orders get their note from the split event, which carries the
	// same summary.
	if payload.Summary != nil && payload.Summary.IsSplit {
		return nil
	}
	return n.deliver(ctx, event, payload.OrderNumber, payload.Summary)
}

func (n *NotificationService) handleOrderUnresolved(ctx context.Context, event events.Event) error {
	n.logger.Info("OrderUnresolved", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleSplitShipmentDetected(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SplitShipmentDetectedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("SplitShipmentDetected",
		zap.String("ticket_id", event.TicketID),
		zap.Int64("order_number", payload.OrderNumber),
		zap.Int("groups", payload.GroupCount))
	return n.deliver(ctx, event, payload.OrderNumber, &payload.Summary)
}

// BuildNote renders both note formats for a summary.
func BuildNote(ticketID string, eventType events.EventType, orderNumber int64, summary *domain.FulfillmentSummary) (NotePayload, error) {
	markdown := RenderInternalNote(summary)
	html, err := RenderInternalNoteHTML(markdown)
	if err != nil {
		return NotePayload{}, err
	}
	return NotePayload{
		TicketID:    ticketID,
		EventType:   eventType,
		OrderNumber: orderNumber,
		BodyText:    markdown,
		BodyHTML:    html,
		AIContext:   RenderAIContext(summary),
		IsSplit:     summary != nil && summary.IsSplit,
	}, nil
}

func (n *NotificationService) deliver(ctx context.Context, event events.Event, orderNumber int64, summary *domain.FulfillmentSummary) error {
	note, err := BuildNote(event.TicketID, event.Type, orderNumber, summary)
	if err != nil {
		return err
	}
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		n.logger.Debug("internal note rendered; no webhook configured",
			zap.String("ticket_id", event.TicketID),
			zap.Int("note_bytes", len(note.BodyText)))
		return nil
	}

	body, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("encode note: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build note request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-ID", event.ID)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver note: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("deliver note: webhook returned %d", resp.StatusCode)
	}
	n.logger.Debug("internal note delivered",
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
	return nil
}
