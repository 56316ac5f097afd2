package order

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/tacmedikal/fieldtrack-api/internal/email"
	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/internal/repository"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
)

// Service handles the light e-commerce flow: orders are placed against the
// active catalog and move through a status pipeline driven by admins.
type Service struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	mail     email.Sender
	logger   *logger.Logger
}

func NewService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	mail email.Sender,
	log *logger.Logger,
) *Service {
	return &Service{
		orders:   orders,
		products: products,
		users:    users,
		mail:     mail,
		logger:   log,
	}
}

// Create places an order. Product names and unit prices are copied onto the
// line items so later catalog edits never change a placed order.
func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreateOrderRequest) (*model.Order, error) {
	items := make(model.OrderItems, 0, len(req.Items))
	total := 0.0

	for _, line := range req.Items {
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, apperrors.NotFound("product", err)
		}
		if !product.Active {
			return nil, apperrors.BadRequest(fmt.Sprintf("product %s is no longer available", product.Name), nil)
		}

		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		total += product.Price * float64(line.Quantity)
	}

	now := time.Now()
	order := &model.Order{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: sess.UserID,
		Items:  items,
		Total:  math.Round(total*100) / 100,
		Status: model.OrderStatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order placed", "order_id", order.ID.String(), "total", order.Total)
	return order, nil
}

// Get returns an order. Non-admins can only read their own.
func (s *Service) Get(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("order", err)
	}
	if order.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, apperrors.Forbidden("order belongs to another user", nil)
	}
	return order, nil
}

// List returns the caller's orders; admins see every order.
func (s *Service) List(ctx context.Context, sess *model.Session, filter *model.OrderFilter) ([]*model.Order, error) {
	if sess.IsAdmin() {
		orders, err := s.orders.ListAll(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders: %w", err)
		}
		return orders, nil
	}

	orders, err := s.orders.ListByUser(ctx, sess.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order through the pipeline and notifies the buyer by
// email, best effort. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, sess *model.Session, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("admin access required", nil)
	}

	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("order", err)
	}

	if !validTransition(order.Status, status) {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status), nil)
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status

	s.notifyStatusChange(ctx, order)
	return order, nil
}

// validTransition encodes the order pipeline. Cancellation is allowed until
// the order ships; delivered and cancelled are terminal.
func validTransition(from, to model.OrderStatus) bool {
	switch from {
	case model.OrderStatusPending:
		return to == model.OrderStatusProcessing || to == model.OrderStatusCancelled
	case model.OrderStatusProcessing:
		return to == model.OrderStatusShipped || to == model.OrderStatusCancelled
	case model.OrderStatusShipped:
		return to == model.OrderStatusDelivered
	default:
		return false
	}
}

func (s *Service) notifyStatusChange(ctx context.Context, order *model.Order) {
	user, err := s.users.Get(ctx, order.UserID)
	if err != nil {
		s.logger.Warn("order notification skipped, user lookup failed", "order_id", order.ID.String())
		return
	}

	subject := fmt.Sprintf("Order %s is now %s", shortID(order.ID), order.Status)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your order <b>%s</b> is now <b>%s</b>.</p><p>Total: %.2f</p>",
		user.FirstName, shortID(order.ID), order.Status, order.Total,
	)

	if err := s.mail.Send(user.Email, subject, body); err != nil {
		s.logger.Warn("order notification failed", "order_id", order.ID.String(), "error", err.Error())
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
