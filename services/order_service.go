package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/utils"
)

const orderNumberAttempts = 5

// OrderService drives checkout and the staff side of the order lifecycle.
type OrderService struct {
	Orders    OrderStore
	Carts     CartStore
	Catalog   CatalogStore
	Validator *OrderValidator
	Policy    TransitionPolicy
	Guard     IdempotencyGuard
	Notifier  Broadcaster
	Now       func() time.Time
}

func NewOrderService(orders OrderStore, carts CartStore, catalog CatalogStore, validator *OrderValidator) *OrderService {
	return &OrderService{
		Orders:    orders,
		Carts:     carts,
		Catalog:   catalog,
		Validator: validator,
		Policy:    UnrestrictedTransitions{},
		Notifier:  noopBroadcaster{},
		Now:       time.Now,
	}
}

// SubmitRequest is a checkout of the cart CartID.
type SubmitRequest struct {
	CartID         string
	IdempotencyKey string
	CustomerName   string
	Phone          string
	Province       string
	District       string
	Ward           string
	Address        string
	DeliveryDate   string
	DeliveryTime   string
	Notes          string
	ClientTotal    *decimal.Decimal
}

// SubmitResult carries the stored order and the text the customer forwards to the shop.
type SubmitResult struct {
	Order   *models.Order
	Summary string
}

// Validate is a dry run of Submit: nothing is stored and the cart is left as is.
func (s *OrderService) Validate(ctx context.Context, req SubmitRequest) (*Accepted, error) {
	cart, err := s.loadCart(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, draftFrom(req, cart))
}

// Submit validates the cart against the delivery-day menu and creates a pending order.
// The cart is deleted only after the order has been stored.
func (s *OrderService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	cart, err := s.loadCart(ctx, req.CartID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.validate(ctx, draftFrom(req, cart))
	if err != nil {
		return nil, err
	}

	log := utils.InfoLogger.WithFields(logrus.Fields{
		"cart_id": cart.ID,
		"week_id": accepted.WeekID,
		"day":     accepted.DeliveryDay,
	})
	if accepted.ClientTotalMismatch {
		log.WithFields(logrus.Fields{
			"client_total": req.ClientTotal.String(),
			"total":        accepted.TotalAmount.String(),
		}).Warn("client total ignored, using recomputed total")
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		if err := s.reserve(ctx, key); err != nil {
			return nil, err
		}
	}

	order := s.newOrder(accepted, key)
	if err := s.create(ctx, order); err != nil {
		if key != "" && !errors.Is(err, ErrDuplicateSubmission) {
			if rerr := s.guard().Release(ctx, key); rerr != nil {
				utils.ErrorLogger.WithError(rerr).Error("release idempotency key")
			}
		}
		return nil, err
	}

	if err := s.Carts.Delete(ctx, cart.ID); err != nil && !errors.Is(err, ErrCartNotFound) {
		utils.ErrorLogger.WithError(err).WithField("cart_id", cart.ID).Error("clear cart after order")
	}

	log.WithField("order_number", order.OrderNumber).Info("order created")
	s.notifier().Broadcast(EventOrderCreated, order)

	return &SubmitResult{Order: order, Summary: OrderSummary(order)}, nil
}

func (s *OrderService) validate(ctx context.Context, draft OrderDraft) (*Accepted, error) {
	if err := s.Validator.CheckCompleteness(draft); err != nil {
		return nil, err
	}

	_, _, weekID, err := s.Validator.ResolveDelivery(draft.DeliveryDate)
	if err != nil {
		return nil, err
	}

	offerings, err := s.Catalog.ListOfferings(ctx, MenuFilter{WeekID: weekID, AvailableOnly: true})
	if err != nil {
		return nil, persistence("list menu offerings", err)
	}
	return s.Validator.Validate(draft, offerings)
}

func (s *OrderService) reserve(ctx context.Context, key string) error {
	fresh, err := s.guard().Reserve(ctx, key)
	if err != nil {
		return persistence("reserve idempotency key", err)
	}
	if !fresh {
		return ErrDuplicateSubmission
	}
	return nil
}

func (s *OrderService) newOrder(a *Accepted, key string) *models.Order {
	now := s.now()
	d := a.Draft
	order := &models.Order{
		CustomerName: strings.TrimSpace(d.CustomerName),
		Phone:        strings.TrimSpace(d.Phone),
		Province:     d.Province,
		District:     d.District,
		Ward:         d.Ward,
		Address:      strings.TrimSpace(d.Address),
		DeliveryDate: strings.TrimSpace(d.DeliveryDate),
		DeliveryTime: strings.TrimSpace(d.DeliveryTime),
		DeliveryDay:  a.DeliveryDay,
		WeekID:       a.WeekID,
		Notes:        d.Notes,
		Items:        a.Items,
		TotalAmount:  a.TotalAmount,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if key != "" {
		order.IdempotencyKey = &key
	}
	return order
}

// create assigns an order number that is free in the store and persists the order.
// A lost race on the number is retried with the next candidate.
func (s *OrderService) create(ctx context.Context, order *models.Order) error {
	seq := order.CreatedAt.UnixMilli() % 1000000

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number, err := s.freeOrderNumber(ctx, seq)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		err = s.Orders.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateKey) {
			return persistence("create order", err)
		}

		if order.IdempotencyKey != nil {
			existing, ferr := s.Orders.FindByIdempotencyKey(ctx, *order.IdempotencyKey)
			if ferr == nil && existing != nil {
				return ErrDuplicateSubmission
			}
		}
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = 0
		}
		seq = (seq + 1) % 1000000
	}
	return persistence("create order", fmt.Errorf("no free order number after %d attempts", orderNumberAttempts))
}

func (s *OrderService) freeOrderNumber(ctx context.Context, seq int64) (string, error) {
	for i := 0; i < 1000000; i++ {
		number := FormatOrderNumber(seq)
		exists, err := s.Orders.OrderNumberExists(ctx, number)
		if err != nil {
			return "", persistence("check order number", err)
		}
		if !exists {
			return number, nil
		}
		seq = (seq + 1) % 1000000
	}
	return "", persistence("check order number", errors.New("order number space exhausted"))
}

// FormatOrderNumber renders the six-digit human-readable order token.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("#%06d", seq)
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, persistence("get order", err)
	}
	return order, nil
}

// List returns orders newest first.
func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	orders, err := s.Orders.List(ctx, filter)
	if err != nil {
		return nil, persistence("list orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to status under the configured policy and stamps updatedAt.
// Any policy other than UnrestrictedTransitions only writes while the order still has the
// status the policy was checked against.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, models.ErrInvalidStatus
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy().Allow(current.Status, status); err != nil {
		return nil, err
	}

	var from models.OrderStatus
	if _, unrestricted := s.policy().(UnrestrictedTransitions); !unrestricted {
		from = current.Status
	}

	updated, err := s.Orders.UpdateStatus(ctx, id, from, status, s.now())
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrStatusChanged) {
			return nil, err
		}
		return nil, persistence("update order status", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_number": updated.OrderNumber,
		"from":         current.Status,
		"to":           updated.Status,
	}).Info("order status updated")
	s.notifier().Broadcast(EventOrderUpdated, updated)
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	if err := s.Orders.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return err
		}
		return persistence("delete order", err)
	}
	s.notifier().Broadcast(EventOrderDeleted, map[string]uint{"id": id})
	return nil
}

// Stats counts orders per status, including statuses with no orders.
func (s *OrderService) Stats(ctx context.Context) (map[models.OrderStatus]int64, error) {
	counts, err := s.Orders.CountByStatus(ctx)
	if err != nil {
		return nil, persistence("count orders", err)
	}
	out := make(map[models.OrderStatus]int64, len(models.OrderStatuses))
	for _, st := range models.OrderStatuses {
		out[st] = counts[st]
	}
	return out, nil
}

func (s *OrderService) loadCart(ctx context.Context, id string) (*models.Cart, error) {
	cart, err := s.Carts.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return nil, err
		}
		return nil, persistence("load cart", err)
	}
	return cart, nil
}

func draftFrom(req SubmitRequest, cart *models.Cart) OrderDraft {
	return OrderDraft{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Province:     req.Province,
		District:     req.District,
		Ward:         req.Ward,
		Address:      req.Address,
		DeliveryDate: req.DeliveryDate,
		DeliveryTime: req.DeliveryTime,
		Notes:        req.Notes,
		Lines:        cart.Lines,
		ClientTotal:  req.ClientTotal,
	}
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *OrderService) policy() TransitionPolicy {
	if s.Policy == nil {
		return UnrestrictedTransitions{}
	}
	return s.Policy
}

func (s *OrderService) notifier() Broadcaster {
	if s.Notifier == nil {
		return noopBroadcaster{}
	}
	return s.Notifier
}

func (s *OrderService) guard() IdempotencyGuard {
	if s.Guard == nil {
		return storeGuard{orders: s.Orders}
	}
	return s.Guard
}

// storeGuard treats a key as seen when an order already carries it. The unique index on
// orders.idempotency_key settles concurrent submissions.
type storeGuard struct {
	orders OrderStore
}

func (g storeGuard) Reserve(ctx context.Context, key string) (bool, error) {
	existing, err := g.orders.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

func (storeGuard) Release(context.Context, string) error { return nil }
