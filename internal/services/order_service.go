package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/export"
	"github.com/ida-management/backoffice/internal/notifications"
	"github.com/ida-management/backoffice/internal/repositories"
	"github.com/ida-management/backoffice/internal/search"
)

const (
	activityStatusChanged         = "order.status.changed"
	activityInternalStatusChanged = "order.internal_status.changed"
	activityDocumentReviewed      = "order.document.reviewed"
	activityTrackingSet           = "order.tracking.set"
	activityFulfillmentAssigned   = "order.fulfillment.assigned"
	activityProductionUpdated     = "order.production.updated"
	activityArchived              = "order.archived"

	defaultPerPage = 25
	maxPerPage     = 100
)

// OrderServiceDeps bundles collaborators required to construct the order service.
type OrderServiceDeps struct {
	Orders      repositories.OrderRepository
	Transitions domain.TransitionTable
	Notifier    notifications.Sender
	Clock       func() time.Time
	IDGenerator func() string
	Logger      *zap.Logger
}

type orderService struct {
	orders      repositories.OrderRepository
	transitions domain.TransitionTable
	notifier    notifications.Sender
	clock       func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// NewOrderService wires dependencies into a concrete OrderService implementation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service: order repository is required")
	}

	transitions := deps.Transitions
	if transitions == nil {
		transitions = domain.DefaultOrderTransitions()
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return ulid.Make().String()
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &orderService{
		orders:      deps.Orders,
		transitions: transitions,
		notifier:    deps.Notifier,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID:  idGen,
		logger: logger,
	}, nil
}

func (s *orderService) ListOrders(ctx context.Context, query ListOrdersQuery) (OrderList, error) {
	filtered, err := s.filteredOrders(ctx, query)
	if err != nil {
		return OrderList{}, err
	}

	summary := summarise(filtered)
	sortOrders(filtered, query.SortBy, query.SortDesc)

	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	start := (page - 1) * perPage
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + perPage
	if end > len(filtered) {
		end = len(filtered)
	}

	return OrderList{
		Orders:  filtered[start:end],
		Total:   len(filtered),
		Page:    page,
		PerPage: perPage,
		Summary: summary,
	}, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return order, nil
}

func (s *orderService) ChangeStatus(ctx context.Context, cmd ChangeStatusCommand) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if order.Status == cmd.Status {
		return nil, fmt.Errorf("%w: order %s is already %s", ErrStatusUnchanged, order.ID, cmd.Status)
	}
	if !s.transitions.CanTransition(order.Status, cmd.Status) {
		return nil, &StatusTransitionError{OrderID: order.ID, From: order.Status, To: cmd.Status}
	}

	now := s.clock()
	previous := order.Status
	order.Status = cmd.Status
	order.UpdatedAt = now
	s.appendActivity(order, activityStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", previous, cmd.Status), cmd.Actor, now)

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("order status changed",
		zap.String("order_id", order.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(cmd.Status)),
		zap.String("actor", cmd.Actor),
	)
	return order, nil
}

func (s *orderService) SetInternalStatus(ctx context.Context, cmd SetInternalStatusCommand) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	// Re-selecting the current triage state is a no-op, not an error.
	if order.InternalStatus == cmd.InternalStatus {
		return order, nil
	}

	now := s.clock()
	previous := order.InternalStatus
	order.InternalStatus = cmd.InternalStatus
	order.UpdatedAt = now
	s.appendActivity(order, activityInternalStatusChanged,
		fmt.Sprintf("Internal status changed from %s to %s", previous, cmd.InternalStatus), cmd.Actor, now)

	if cmd.InternalStatus == domain.InternalStatusReviewed {
		changed := domain.ApplyReviewSideEffects(order, cmd.Actor, now)
		for _, slot := range changed {
			s.appendActivity(order, activityDocumentReviewed,
				fmt.Sprintf("Document %s approved on review completion", slot), cmd.Actor, now)
		}
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, mapRepositoryError(err)
	}
	return order, nil
}

func (s *orderService) ReviewDocument(ctx context.Context, cmd ReviewDocumentCommand) (ReviewDocumentResult, error) {
	if !domain.DocumentStatusSettable(cmd.Status) {
		return ReviewDocumentResult{}, fmt.Errorf("%w: document status %q cannot be set", ErrInvalidInput, cmd.Status)
	}
	if cmd.Status == domain.DocumentStatusRejected && strings.TrimSpace(cmd.RejectionNote) == "" {
		return ReviewDocumentResult{}, fmt.Errorf("%w: rejection note is required", ErrInvalidInput)
	}

	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return ReviewDocumentResult{}, err
	}

	doc := order.Documents.Slot(cmd.Slot)
	if doc == nil {
		return ReviewDocumentResult{}, fmt.Errorf("%w: unknown document slot %q", ErrInvalidInput, cmd.Slot)
	}

	now := s.clock()
	doc.Status = cmd.Status
	doc.ReviewedBy = cmd.Actor
	reviewedAt := now
	doc.ReviewedAt = &reviewedAt
	if cmd.Status == domain.DocumentStatusRejected {
		doc.RejectionNote = strings.TrimSpace(cmd.RejectionNote)
	} else {
		doc.RejectionNote = ""
	}
	order.UpdatedAt = now
	s.appendActivity(order, activityDocumentReviewed,
		fmt.Sprintf("Document %s marked %s", cmd.Slot, cmd.Status), cmd.Actor, now)

	if err := s.orders.Update(ctx, order); err != nil {
		return ReviewDocumentResult{}, mapRepositoryError(err)
	}

	result := ReviewDocumentResult{Order: order}
	if cmd.Status == domain.DocumentStatusRejected && s.notifier != nil {
		msg := notifications.NewDocumentRejection(order, cmd.Slot, doc.RejectionNote, now)
		if err := s.notifier.SendDocumentRejection(ctx, msg); err != nil {
			// The review stands even when the notice cannot be delivered.
			s.logger.Warn("rejection notice not delivered",
				zap.String("order_id", order.ID),
				zap.String("slot", string(cmd.Slot)),
				zap.Error(err),
			)
		} else {
			result.NotificationSent = true
		}
	}
	return result, nil
}

func (s *orderService) SetTracking(ctx context.Context, cmd SetTrackingCommand) (*domain.Order, error) {
	carrier := strings.TrimSpace(cmd.Carrier)
	number := strings.TrimSpace(cmd.Number)
	if carrier == "" || number == "" {
		return nil, fmt.Errorf("%w: tracking carrier and number are required", ErrInvalidInput)
	}

	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	order.Tracking = &domain.Tracking{Carrier: carrier, Number: number}
	order.UpdatedAt = now
	s.appendActivity(order, activityTrackingSet,
		fmt.Sprintf("Tracking set: %s %s", carrier, number), cmd.Actor, now)

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, mapRepositoryError(err)
	}
	return order, nil
}

func (s *orderService) AssignFulfillment(ctx context.Context, cmd AssignFulfillmentCommand) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	region := cmd.Region
	switch region {
	case "":
		region = domain.AssignRegion(order.Shipping.Country)
	case domain.RegionUK, domain.RegionChina:
	default:
		return nil, fmt.Errorf("%w: unknown fulfillment region %q", ErrInvalidInput, cmd.Region)
	}

	now := s.clock()
	order.Fulfillment.Region = region
	order.UpdatedAt = now
	s.appendActivity(order, activityFulfillmentAssigned,
		fmt.Sprintf("Fulfillment assigned to %s", region), cmd.Actor, now)

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, mapRepositoryError(err)
	}
	return order, nil
}

func (s *orderService) SetProductionFlags(ctx context.Context, cmd SetProductionFlagsCommand) (*domain.Order, error) {
	if cmd.Generated == nil && cmd.Printed == nil {
		return nil, fmt.Errorf("%w: at least one production flag is required", ErrInvalidInput)
	}

	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if cmd.Generated != nil {
		order.Fulfillment.Generated = *cmd.Generated
	}
	if cmd.Printed != nil {
		order.Fulfillment.Printed = *cmd.Printed
	}
	order.UpdatedAt = now
	s.appendActivity(order, activityProductionUpdated,
		fmt.Sprintf("Production flags updated: generated=%t printed=%t",
			order.Fulfillment.Generated, order.Fulfillment.Printed), cmd.Actor, now)

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, mapRepositoryError(err)
	}
	return order, nil
}

func (s *orderService) ArchiveOrder(ctx context.Context, cmd ArchiveOrderCommand) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.ArchivedAt != nil {
		return nil, fmt.Errorf("%w: order %s is already archived", ErrConflict, order.ID)
	}

	now := s.clock()
	s.appendActivity(order, activityArchived, "Order archived", cmd.Actor, now)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.orders.Archive(ctx, order.ID, now); err != nil {
		return nil, mapRepositoryError(err)
	}

	return s.GetOrder(ctx, order.ID)
}

func (s *orderService) ExportCSV(ctx context.Context, query ListOrdersQuery, w io.Writer) error {
	filtered, err := s.filteredOrders(ctx, query)
	if err != nil {
		return err
	}
	sortOrders(filtered, query.SortBy, query.SortDesc)
	return export.WriteOrdersCSV(w, filtered)
}

// filteredOrders applies the query's filters and search term but not paging.
func (s *orderService) filteredOrders(ctx context.Context, query ListOrdersQuery) ([]*domain.Order, error) {
	var (
		orders []*domain.Order
		err    error
	)
	if query.Archived {
		orders, err = s.orders.ListArchived(ctx)
	} else {
		orders, err = s.orders.List(ctx)
	}
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	filtered := orders[:0:0]
	for _, order := range orders {
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		if query.InternalStatus != "" && order.InternalStatus != query.InternalStatus {
			continue
		}
		if query.PaymentStatus != "" && order.Payment.Status != query.PaymentStatus {
			continue
		}
		if query.Region != "" && order.Fulfillment.Region != query.Region {
			continue
		}
		if query.ProductType != "" && order.ProductType != query.ProductType {
			continue
		}
		if query.DeliveryType != "" && order.DeliveryType != query.DeliveryType {
			continue
		}
		filtered = append(filtered, order)
	}

	return search.Filter(filtered, query.Search,
		func(o *domain.Order) string { return o.Number },
		func(o *domain.Order) string { return o.Customer.Name },
		func(o *domain.Order) string { return o.Customer.Email },
		func(o *domain.Order) string { return o.Shipping.Country },
		func(o *domain.Order) string { return search.FormatAmount(o.AmountMinor) },
		func(o *domain.Order) string {
			if o.Tracking == nil {
				return ""
			}
			return o.Tracking.Number
		},
	), nil
}

func summarise(orders []*domain.Order) OrderSummary {
	summary := OrderSummary{
		Total:            len(orders),
		ByStatus:         make(map[domain.OrderStatus]int),
		ByInternalStatus: make(map[domain.InternalStatus]int),
	}
	for _, order := range orders {
		summary.ByStatus[order.Status]++
		summary.ByInternalStatus[order.InternalStatus]++
	}
	return summary
}

func sortOrders(orders []*domain.Order, field SortField, desc bool) {
	// Unsorted list views show newest orders first.
	if field == "" {
		field = SortByDate
		desc = true
	}

	cmp := func(a, b *domain.Order) int {
		switch field {
		case SortByAmount:
			if a.AmountMinor < b.AmountMinor {
				return -1
			}
			if a.AmountMinor > b.AmountMinor {
				return 1
			}
			return 0
		case SortByCustomer:
			return strings.Compare(strings.ToLower(a.Customer.Name), strings.ToLower(b.Customer.Name))
		case SortByStatus:
			return strings.Compare(string(a.Status), string(b.Status))
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	slices.SortStableFunc(orders, func(a, b *domain.Order) int {
		c := cmp(a, b)
		if desc {
			return -c
		}
		return c
	})
}

func (s *orderService) appendActivity(order *domain.Order, entryType, message, actor string, at time.Time) {
	order.Activity = append(order.Activity, domain.ActivityEntry{
		ID:         s.newID(),
		Type:       entryType,
		Message:    message,
		Actor:      actor,
		OccurredAt: at,
	})
}

