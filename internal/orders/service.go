package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastline/feastline-backend/internal/cart"
	"github.com/feastline/feastline-backend/internal/delivery"
	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
	"github.com/feastline/feastline-backend/pkg/metrics"
	"github.com/feastline/feastline-backend/pkg/pagination"
)

// Service is the order engine: checkout, the status state machine, and the
// customer-facing reads built on top of it.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error)
	Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	History(ctx context.Context, params HistoryParams) (*HistoryResult, error)
	RestaurantOrders(ctx context.Context, ownerID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error)
	PartnerOrders(ctx context.Context, partnerUserID uuid.UUID, activeOnly bool) ([]models.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	Reorder(ctx context.Context, customerID, orderID uuid.UUID) (*ReorderResult, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	cart        checkoutCart
	offers      offerApplier
	fees        feeResolver
	partners    partnerPool
	partnerRepo delivery.Repository
	notify      notifier
	catalog     restaurantReader
	metrics     *metrics.FulfillmentMetrics
}

// NewService builds the order engine with the required dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	cartSvc checkoutCart,
	offerSvc offerApplier,
	feeRes feeResolver,
	partners partnerPool,
	partnerRepo delivery.Repository,
	notify notifier,
	catalogRepo restaurantReader,
	m *metrics.FulfillmentMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if offerSvc == nil {
		return nil, fmt.Errorf("offers service required")
	}
	if feeRes == nil {
		return nil, fmt.Errorf("fee resolver required")
	}
	if partners == nil {
		return nil, fmt.Errorf("delivery service required")
	}
	if partnerRepo == nil {
		return nil, fmt.Errorf("delivery repository required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if m == nil {
		m = metrics.NewFulfillmentMetrics(nil)
	}
	return &service{
		repo:        repo,
		tx:          tx,
		cart:        cartSvc,
		offers:      offerSvc,
		fees:        feeRes,
		partners:    partners,
		partnerRepo: partnerRepo,
		notify:      notify,
		catalog:     catalogRepo,
		metrics:     m,
	}, nil
}

// Checkout snapshots the cart into an order. The cart stays locked for the
// whole of this call; the order row, its items, and the placed notifications
// commit in one transaction or not at all.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	start := time.Now()
	order, err := s.checkout(ctx, input)
	if err != nil {
		s.metrics.ObserveCheckout("failure", time.Since(start))
		return nil, err
	}
	s.metrics.ObserveCheckout("success", time.Since(start))
	s.metrics.IncOrdersPlaced()
	return order, nil
}

func (s *service) checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.PaymentMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment mode")
	}

	var out *models.Order
	err := s.cart.WithCheckout(ctx, input.CustomerID, func(priced cart.PricedCart) error {
		restaurant, err := s.catalog.FindRestaurantByID(ctx, priced.RestaurantID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "restaurant no longer exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
		}
		if !restaurant.AcceptsOrders() {
			return pkgerrors.New(pkgerrors.CodeUnavailable, "restaurant is not accepting orders")
		}

		applied, err := s.offers.Apply(ctx, input.CustomerID, restaurant.ID, priced.Subtotal, input.OfferID)
		if err != nil {
			return err
		}
		schedule, err := s.fees.Resolve(ctx, restaurant.ID)
		if err != nil {
			return err
		}

		total := priced.Subtotal.
			Sub(applied.Discount).
			Add(schedule.DeliveryFee).
			Add(schedule.PlatformFee).
			Round(2)

		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			order := &models.Order{
				CustomerID:     input.CustomerID,
				RestaurantID:   restaurant.ID,
				Status:         enums.OrderStatusPlaced,
				TotalAmount:    total,
				DiscountAmount: applied.Discount,
				DeliveryFee:    schedule.DeliveryFee,
				PlatformFee:    schedule.PlatformFee,
				PaymentMode:    input.PaymentMode,
			}
			created, err := repo.Create(ctx, order)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}

			items := make([]models.OrderItem, 0, len(priced.Lines))
			for _, line := range priced.Lines {
				items = append(items, models.OrderItem{
					OrderID:       created.ID,
					DishID:        line.DishID,
					Quantity:      line.Quantity,
					PriceSnapshot: line.Price,
				})
			}
			if err := repo.CreateItems(ctx, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
			}

			if err := s.notify.OnOrderPlaced(ctx, tx, created, restaurant.OwnerID); err != nil {
				return err
			}

			created.Items = items
			out = created
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) History(ctx context.Context, params HistoryParams) (*HistoryResult, error) {
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	rows, next, err := s.repo.ListByCustomer(ctx, params.CustomerID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return &HistoryResult{Items: rows, Cursor: nextCursor}, nil
}

func (s *service) RestaurantOrders(ctx context.Context, ownerID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	restaurant, err := s.catalog.FindRestaurantByOwner(ctx, ownerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found for owner")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner restaurant")
	}
	orders, err := s.repo.ListByRestaurant(ctx, restaurant.ID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurant orders")
	}
	return orders, nil
}

func (s *service) PartnerOrders(ctx context.Context, partnerUserID uuid.UUID, activeOnly bool) ([]models.Order, error) {
	partner, err := s.partners.PartnerByUser(ctx, partnerUserID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByPartner(ctx, partner.ID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list partner orders")
	}
	return orders, nil
}

// Transition applies one move of the state machine. Status checks are
// re-validated inside the transaction with compare-and-set updates, so two
// concurrent callers cannot both succeed.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.To.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == input.To {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("order is already %s", order.Status))
	}

	role, ok := transitionAllowed(order.Status, input.To)
	if !ok || input.Actor.Role != role {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, input.To))
	}

	switch {
	case order.Status == enums.OrderStatusPlaced && input.To == enums.OrderStatusPreparing:
		return s.acceptOrder(ctx, order, input.Actor)
	case order.Status == enums.OrderStatusPreparing && input.To == enums.OrderStatusOutForDelivery:
		return s.claimDelivery(ctx, order, input.Actor)
	case order.Status == enums.OrderStatusOutForDelivery && input.To == enums.OrderStatusDelivered:
		return s.completeDelivery(ctx, order, input.Actor)
	case order.Status == enums.OrderStatusPlaced && input.To == enums.OrderStatusCancelled:
		return s.cancelOrder(ctx, order, input.Actor)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "unsupported transition")
	}
}

func (s *service) Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	return s.Transition(ctx, TransitionInput{
		OrderID: orderID,
		To:      enums.OrderStatusCancelled,
		Actor:   Actor{UserID: customerID, Role: enums.RoleCustomer},
	})
}

// acceptOrder moves placed to preparing and tries to line up a delivery
// partner right away. Finding nobody free is not an error; the order can
// still be claimed later.
func (s *service) acceptOrder(ctx context.Context, order *models.Order, actor Actor) (*models.Order, error) {
	restaurant, err := s.catalog.FindRestaurantByOwner(ctx, actor.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to your restaurant")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner restaurant")
	}
	if restaurant.ID != order.RestaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to your restaurant")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		won, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPlaced, enums.OrderStatusPreparing)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order is no longer placed")
		}
		order.Status = enums.OrderStatusPreparing

		partner, err := s.partners.Assign(ctx, tx, order.RestaurantID)
		if err != nil {
			return err
		}
		if partner != nil {
			if err := repo.AssignPartner(ctx, order.ID, partner.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign partner")
			}
			order.DeliveryPartnerID = &partner.ID
			if err := s.notify.OnPartnerAssigned(ctx, tx, order, partner.UserID); err != nil {
				return err
			}
		}

		return s.notify.OnStatusChanged(ctx, tx, order, enums.OrderStatusPlaced)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(string(enums.OrderStatusPlaced), string(enums.OrderStatusPreparing))
	return order, nil
}

// claimDelivery moves preparing to out_for_delivery. An unassigned order is
// claimed by the calling partner; an assigned order can only be picked up by
// the partner holding the assignment.
func (s *service) claimDelivery(ctx context.Context, order *models.Order, actor Actor) (*models.Order, error) {
	partner, err := s.partners.PartnerByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if order.DeliveryPartnerID == nil {
			won, err := s.partnerRepo.WithTx(tx).ClaimPartnerByUser(ctx, actor.UserID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim partner availability")
			}
			if !won {
				return pkgerrors.New(pkgerrors.CodeUnavailable, "you already hold an active delivery")
			}
		} else if *order.DeliveryPartnerID != partner.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to another partner")
		}

		won, err := repo.ClaimForDelivery(ctx, order.ID, partner.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim order")
		}
		if !won {
			s.metrics.IncClaimConflict()
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order was claimed by someone else")
		}

		order.Status = enums.OrderStatusOutForDelivery
		order.DeliveryPartnerID = &partner.ID
		if err := s.notify.OnPartnerAssigned(ctx, tx, order, partner.UserID); err != nil {
			return err
		}
		return s.notify.OnStatusChanged(ctx, tx, order, enums.OrderStatusPreparing)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(string(enums.OrderStatusPreparing), string(enums.OrderStatusOutForDelivery))
	return order, nil
}

// completeDelivery moves out_for_delivery to delivered and frees the partner
// for the next order.
func (s *service) completeDelivery(ctx context.Context, order *models.Order, actor Actor) (*models.Order, error) {
	partner, err := s.partners.PartnerByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != partner.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to another partner")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		won, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order is no longer out for delivery")
		}
		order.Status = enums.OrderStatusDelivered

		if err := s.partners.Release(ctx, tx, partner.ID); err != nil {
			return err
		}
		return s.notify.OnStatusChanged(ctx, tx, order, enums.OrderStatusOutForDelivery)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(string(enums.OrderStatusOutForDelivery), string(enums.OrderStatusDelivered))
	return order, nil
}

// cancelOrder moves placed to cancelled. The partner release covers the rare
// case where an assignment landed before the customer cancelled.
func (s *service) cancelOrder(ctx context.Context, order *models.Order, actor Actor) (*models.Order, error) {
	if order.CustomerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to you")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		won, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPlaced, enums.OrderStatusCancelled)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "order can no longer be cancelled")
		}
		order.Status = enums.OrderStatusCancelled

		if order.DeliveryPartnerID != nil {
			if err := s.partners.Release(ctx, tx, *order.DeliveryPartnerID); err != nil {
				return err
			}
		}
		return s.notify.OnStatusChanged(ctx, tx, order, enums.OrderStatusPlaced)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransition(string(enums.OrderStatusPlaced), string(enums.OrderStatusCancelled))
	return order, nil
}

// Reorder rebuilds the cart from a past order, skipping dishes that have
// since gone off the menu. Prices are whatever the menu says today, not the
// old snapshots.
func (s *service) Reorder(ctx context.Context, customerID, orderID uuid.UUID) (*ReorderResult, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to you")
	}

	// The old cart is gone as soon as the reorder is accepted, even if no
	// historical item survives the re-add below.
	if err := s.cart.Clear(ctx, customerID); err != nil {
		return nil, err
	}

	restaurant, err := s.catalog.FindRestaurantByID(ctx, order.RestaurantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCart, "restaurant no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	if !restaurant.AcceptsOrders() {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "restaurant is not accepting orders")
	}

	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.DishID)
	}
	dishes, err := s.catalog.FindDishesByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dishes")
	}
	alive := make(map[uuid.UUID]bool, len(dishes))
	for _, d := range dishes {
		if d.Available && d.RestaurantID == order.RestaurantID {
			alive[d.ID] = true
		}
	}

	result := &ReorderResult{RestaurantID: order.RestaurantID}
	lines := make([]cart.Line, 0, len(order.Items))
	for _, item := range order.Items {
		if alive[item.DishID] {
			lines = append(lines, cart.Line{DishID: item.DishID, Quantity: item.Quantity})
			continue
		}
		result.Skipped = append(result.Skipped, item.DishID)
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCart, "none of the ordered dishes are still available")
	}

	if _, err := s.cart.ReplaceLines(ctx, customerID, order.RestaurantID, lines); err != nil {
		return nil, err
	}
	result.Added = len(lines)
	return result, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) authorizeRead(ctx context.Context, actor Actor, order *models.Order) error {
	switch actor.Role {
	case enums.RoleAdmin, enums.RoleCustomerCare:
		return nil
	case enums.RoleCustomer:
		if order.CustomerID == actor.UserID {
			return nil
		}
	case enums.RoleRestaurantOwner:
		restaurant, err := s.catalog.FindRestaurantByOwner(ctx, actor.UserID)
		if err == nil && restaurant.ID == order.RestaurantID {
			return nil
		}
	case enums.RoleDeliveryPartner:
		partner, err := s.partners.PartnerByUser(ctx, actor.UserID)
		if err == nil && order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == partner.ID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "you cannot view this order")
}
