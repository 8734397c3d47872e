package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"medicart/internal/domain"
	"medicart/internal/events"
	"medicart/internal/repository"
)

// OrderService реализует логику заказов: создание, просмотр, смена статуса
type OrderService struct {
	medicines     repository.MedicineRepository
	orders        repository.OrderRepository
	prescriptions repository.PrescriptionRepository
	tx            repository.TxManager
	events        events.Publisher
	log           zerolog.Logger
}

func NewOrderService(
	medicines repository.MedicineRepository,
	orders repository.OrderRepository,
	prescriptions repository.PrescriptionRepository,
	tx repository.TxManager,
	publisher events.Publisher,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		medicines:     medicines,
		orders:        orders,
		prescriptions: prescriptions,
		tx:            tx,
		events:        publisher,
		log:           log,
	}
}

type OrderLine struct {
	MedicineID uint
	Quantity   int64
}

type PlaceOrderInput struct {
	Items           []OrderLine
	ShippingAddress string
	PrescriptionID  *uint
}

type StatusUpdate struct {
	Status        domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
}

// PlaceOrder проверяет наличие товара и атомарно списывает запас.
// Any failure leaves every stock level untouched.
func (s *OrderService) PlaceOrder(ctx context.Context, caller *domain.User, in PlaceOrderInput) (*domain.Order, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, invalid("order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.MedicineID == 0 || it.Quantity < 1 {
			return nil, invalid("every item needs a medicine_id and a quantity of at least 1")
		}
	}

	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		total := decimal.Zero
		needsPrescription := false
		items := make([]domain.OrderItem, 0, len(in.Items))

		for _, it := range in.Items {
			m, err := s.medicines.GetByID(ctx, it.MedicineID)
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("Medicine", it.MedicineID)
			}
			if err != nil {
				return err
			}
			if m.Stock < it.Quantity {
				return &InsufficientStockError{Name: m.Name, Available: m.Stock}
			}
			// reserve
			ok, err := s.medicines.DecrementStock(ctx, m.ID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return s.shortStock(ctx, m)
			}

			total = total.Add(decimal.NewFromFloat(m.Price).Mul(decimal.NewFromInt(it.Quantity)))
			needsPrescription = needsPrescription || m.RequiresPrescription
			items = append(items, domain.OrderItem{MedicineID: m.ID, Quantity: it.Quantity, Price: m.Price})
		}

		if err := s.checkPrescription(ctx, caller, in.PrescriptionID, needsPrescription); err != nil {
			return err
		}

		o := domain.Order{
			UserID:          caller.ID,
			PrescriptionID:  in.PrescriptionID,
			TotalAmount:     total.Round(2).InexactFloat64(),
			Status:          domain.OrderStatusPending,
			ShippingAddress: in.ShippingAddress,
			PaymentStatus:   domain.PaymentPending,
			Items:           items,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := created.TotalAmount
	publish(ctx, s.events, s.log, events.TopicOrders, events.Event{
		Type:        events.TypeOrderCreated,
		ID:          created.ID,
		UserID:      created.UserID,
		Status:      string(created.Status),
		TotalAmount: &total,
		OccurredAt:  created.CreatedAt,
	})
	return created, nil
}

func (s *OrderService) checkPrescription(ctx context.Context, caller *domain.User, id *uint, required bool) error {
	if id == nil {
		if required {
			return ErrPrescriptionRequired
		}
		return nil
	}
	p, err := s.prescriptions.GetByID(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Prescription", *id)
	}
	if err != nil {
		return err
	}
	if p.UserID != caller.ID {
		return ErrForbidden
	}
	if required && p.Status != domain.PrescriptionVerified {
		return ErrPrescriptionRequired
	}
	return nil
}

// shortStock reports the stock level current at the time the decrement was refused
func (s *OrderService) shortStock(ctx context.Context, m *domain.Medicine) error {
	available := m.Stock
	if fresh, err := s.medicines.GetByID(ctx, m.ID); err == nil {
		available = fresh.Stock
	}
	return &InsufficientStockError{Name: m.Name, Available: available}
}

// ListMine возвращает заказы пользователя, новые первыми
func (s *OrderService) ListMine(ctx context.Context, caller *domain.User) ([]domain.Order, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	return s.orders.ListByUser(ctx, caller.ID)
}

// Get возвращает заказ владельцу или администратору
func (s *OrderService) Get(ctx context.Context, caller *domain.User, id uint) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Order", id)
	}
	if err != nil {
		return nil, err
	}
	if caller == nil || (o.UserID != caller.ID && !isAdmin(caller)) {
		return nil, ErrForbidden
	}
	return o, nil
}

// UpdateStatus меняет статус заказа. Moving to cancelled returns every item to stock.
func (s *OrderService) UpdateStatus(ctx context.Context, caller *domain.User, id uint, in StatusUpdate) (*domain.Order, error) {
	if !isAdmin(caller) {
		return nil, ErrForbidden
	}
	if !in.Status.Valid() {
		return nil, invalid("unknown order status " + string(in.Status))
	}
	if in.PaymentStatus != nil && !in.PaymentStatus.Valid() {
		return nil, invalid("unknown payment status " + string(*in.PaymentStatus))
	}

	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Order", id)
		}
		if err != nil {
			return err
		}
		if o.Status == domain.OrderStatusCancelled {
			return ErrInvalidState
		}
		if in.Status == domain.OrderStatusCancelled {
			// return stock
			for _, it := range o.Items {
				if err := s.medicines.IncrementStock(ctx, it.MedicineID, it.Quantity); err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
			}
		}
		o.Status = in.Status
		if in.PaymentStatus != nil {
			o.PaymentStatus = *in.PaymentStatus
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.log, events.TopicOrders, events.Event{
		Type:       events.TypeOrderStatusChanged,
		ID:         updated.ID,
		UserID:     updated.UserID,
		Status:     string(updated.Status),
		OccurredAt: time.Now().UTC(),
	})
	return updated, nil
}
