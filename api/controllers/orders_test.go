package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/feastline/feastline-backend/api/middleware"
	internalorders "github.com/feastline/feastline-backend/internal/orders"
	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

type testOrderService struct {
	checkoutFn   func(ctx context.Context, input internalorders.CheckoutInput) (*models.Order, error)
	transitionFn func(ctx context.Context, input internalorders.TransitionInput) (*models.Order, error)
	cancelFn     func(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
}

func (s *testOrderService) Checkout(ctx context.Context, input internalorders.CheckoutInput) (*models.Order, error) {
	if s.checkoutFn != nil {
		return s.checkoutFn(ctx, input)
	}
	return &models.Order{}, nil
}

func (s *testOrderService) Get(ctx context.Context, actor internalorders.Actor, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{}, nil
}

func (s *testOrderService) History(ctx context.Context, params internalorders.HistoryParams) (*internalorders.HistoryResult, error) {
	return &internalorders.HistoryResult{}, nil
}

func (s *testOrderService) RestaurantOrders(ctx context.Context, ownerID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	return nil, nil
}

func (s *testOrderService) PartnerOrders(ctx context.Context, partnerUserID uuid.UUID, activeOnly bool) ([]models.Order, error) {
	return nil, nil
}

func (s *testOrderService) Transition(ctx context.Context, input internalorders.TransitionInput) (*models.Order, error) {
	if s.transitionFn != nil {
		return s.transitionFn(ctx, input)
	}
	return &models.Order{}, nil
}

func (s *testOrderService) Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, customerID, orderID)
	}
	return &models.Order{}, nil
}

func (s *testOrderService) Reorder(ctx context.Context, customerID, orderID uuid.UUID) (*internalorders.ReorderResult, error) {
	return &internalorders.ReorderResult{}, nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCheckoutCreatesOrder(t *testing.T) {
	customerID := uuid.New()
	offerID := uuid.New()
	var got internalorders.CheckoutInput
	svc := &testOrderService{
		checkoutFn: func(ctx context.Context, input internalorders.CheckoutInput) (*models.Order, error) {
			got = input
			return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPlaced}, nil
		},
	}

	body := strings.NewReader(`{"payment_mode":"upi","offer_id":"` + offerID.String() + `"}`)
	req := authedRequest(http.MethodPost, "/api/v1/checkout", body, customerID)
	resp := httptest.NewRecorder()
	Checkout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.CustomerID != customerID {
		t.Fatalf("unexpected customer %s", got.CustomerID)
	}
	if got.PaymentMode != enums.PaymentModeUPI {
		t.Fatalf("unexpected payment mode %s", got.PaymentMode)
	}
	if got.OfferID == nil || *got.OfferID != offerID {
		t.Fatalf("offer id not forwarded")
	}
}

func TestCheckoutRejectsUnknownPaymentMode(t *testing.T) {
	svc := &testOrderService{}
	req := authedRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"payment_mode":"cheque"}`), uuid.New())
	resp := httptest.NewRecorder()
	Checkout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderTransitionForwardsActor(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	var got internalorders.TransitionInput
	svc := &testOrderService{
		transitionFn: func(ctx context.Context, input internalorders.TransitionInput) (*models.Order, error) {
			got = input
			return &models.Order{ID: input.OrderID, Status: input.To}, nil
		},
	}

	body := strings.NewReader(`{"status":"preparing"}`)
	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", body, userID)
	req = req.WithContext(middleware.WithRole(req.Context(), string(enums.RoleRestaurantOwner)))
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	OrderTransition(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.OrderID != orderID {
		t.Fatalf("unexpected order %s", got.OrderID)
	}
	if got.To != enums.OrderStatusPreparing {
		t.Fatalf("unexpected target status %s", got.To)
	}
	if got.Actor.UserID != userID || got.Actor.Role != enums.RoleRestaurantOwner {
		t.Fatalf("unexpected actor %+v", got.Actor)
	}
}

func TestOrderTransitionMapsInvalidTransition(t *testing.T) {
	svc := &testOrderService{
		transitionFn: func(ctx context.Context, input internalorders.TransitionInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "status transition disallowed")
		},
	}

	orderID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"delivered"}`), uuid.New())
	req = req.WithContext(middleware.WithRole(req.Context(), string(enums.RoleDeliveryPartner)))
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	OrderTransition(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInvalidTransition) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
}

func TestOrderCancelUsesPathParam(t *testing.T) {
	customerID := uuid.New()
	orderID := uuid.New()
	called := false
	svc := &testOrderService{
		cancelFn: func(ctx context.Context, cid, oid uuid.UUID) (*models.Order, error) {
			called = true
			if cid != customerID || oid != orderID {
				t.Fatalf("unexpected args %s %s", cid, oid)
			}
			return &models.Order{ID: oid, Status: enums.OrderStatusCancelled}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", nil, customerID)
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	OrderCancel(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected cancel to be called")
	}
}
