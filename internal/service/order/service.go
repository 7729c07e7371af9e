package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/adapter/queue"
	"github.com/seu-repo/takeaway-voice/internal/domain"
	"github.com/seu-repo/takeaway-voice/internal/observability/telemetry"
	"github.com/seu-repo/takeaway-voice/internal/ports"
	"github.com/seu-repo/takeaway-voice/internal/service/menu"
)

// SubjectOrderCreated carries the finalized order JSON for the kitchen
// feed and the dashboard.
const SubjectOrderCreated = "orders.created"

// Service prices, persists, prints and republishes finalized orders, and
// backs the read-only admin surface.
type Service struct {
	repo           ports.OrderRepository
	catalog        *menu.Catalog
	printer        ports.Printer
	mq             queue.MessageQueue
	restaurantName string
	taxRate        float64
	log            *zap.Logger
}

func NewService(
	repo ports.OrderRepository,
	catalog *menu.Catalog,
	printer ports.Printer,
	mq queue.MessageQueue,
	restaurantName string,
	taxRate float64,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:           repo,
		catalog:        catalog,
		printer:        printer,
		mq:             mq,
		restaurantName: restaurantName,
		taxRate:        taxRate,
		log:            log,
	}
}

// Build converts a completed draft into a priced order record. The
// takeaway default for order type applies here, at finalization, never
// while drafting.
func (s *Service) Build(state domain.OrderDraft, callerPhone, transcript string, status domain.OrderStatus) *domain.Order {
	orderType := state.OrderType
	if orderType == "" {
		orderType = "takeaway"
	}

	items := state.OrderItems()
	totals := PriceItems(items, s.catalog, s.taxRate)

	return &domain.Order{
		ID:              uuid.NewString(),
		Timestamp:       time.Now().UTC(),
		CustomerName:    state.CustomerName,
		CallerPhone:     callerPhone,
		OrderType:       orderType,
		Items:           items,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Status:          status,
		RawTranscript:   transcript,
		ConfidenceNotes: state.ConfidenceNotes,
	}
}

// Summary is the spoken confirmation form of the order.
func (s *Service) Summary(o *domain.Order) string {
	return FormatSummary(o)
}

// Finalize persists the confirmed order, announces it, and attempts to
// print the ticket. Printing is best-effort: a failure is logged and the
// order simply stays un-upgraded at its confirmed status.
func (s *Service) Finalize(ctx context.Context, o *domain.Order) error {
	if err := s.repo.Save(ctx, o); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	telemetry.OrdersCompletedTotal.Inc()
	s.publishCreated(o)

	ticket := FormatTicket(o, s.restaurantName)
	if err := s.printer.Print(ctx, o.ID, ticket); err != nil {
		s.log.Error("Printing failed", zap.String("order_id", o.ID), zap.Error(err))
		telemetry.PrintFailuresTotal.Inc()
		return nil
	}

	o.Status = domain.OrderStatusPrinted
	if err := s.repo.Update(ctx, o); err != nil {
		s.log.Error("Failed to mark order printed", zap.String("order_id", o.ID), zap.Error(err))
	}
	return nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// Reprint re-renders and prints the ticket for a stored order. Unlike the
// finalization path, a print failure here is surfaced to the admin caller.
func (s *Service) Reprint(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}

	ticket := FormatTicket(o, s.restaurantName)
	if err := s.printer.Print(ctx, o.ID, ticket); err != nil {
		return nil, fmt.Errorf("print order %s: %w", o.ID, err)
	}

	o.Status = domain.OrderStatusPrinted
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) publishCreated(o *domain.Order) {
	if s.mq == nil {
		return
	}
	payload, err := json.Marshal(o)
	if err != nil {
		s.log.Error("Failed to encode order event", zap.Error(err))
		return
	}
	if err := s.mq.Publish(SubjectOrderCreated, payload); err != nil {
		s.log.Error("Failed to publish order event", zap.String("order_id", o.ID), zap.Error(err))
	}
}
