package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feastline/feastline-backend/api/controllers"
	"github.com/feastline/feastline-backend/api/middleware"
	cartsvc "github.com/feastline/feastline-backend/internal/cart"
	"github.com/feastline/feastline-backend/internal/catalog"
	"github.com/feastline/feastline-backend/internal/complaints"
	"github.com/feastline/feastline-backend/internal/delivery"
	"github.com/feastline/feastline-backend/internal/notifications"
	"github.com/feastline/feastline-backend/internal/offers"
	internalorders "github.com/feastline/feastline-backend/internal/orders"
	"github.com/feastline/feastline-backend/pkg/config"
	"github.com/feastline/feastline-backend/pkg/db"
	"github.com/feastline/feastline-backend/pkg/enums"
	"github.com/feastline/feastline-backend/pkg/logger"
	pkgredis "github.com/feastline/feastline-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Catalog       catalog.Service
	Cart          cartsvc.Service
	Offers        offers.Service
	Orders        internalorders.Service
	Delivery      delivery.Service
	Notifications notifications.Service
	Complaints    complaints.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	var idemStore pkgredis.IdempotencyStore
	var redisP pkgredis.Pinger
	if redisClient != nil {
		idemStore = redisClient
		redisP = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		// browsing is open to every authenticated role
		r.Get("/restaurants", controllers.ListRestaurants(svcs.Catalog, logg))
		r.Get("/restaurants/{restaurantId}/menu", controllers.RestaurantMenu(svcs.Catalog, logg))
		r.Get("/notifications", controllers.ListNotifications(svcs.Notifications, logg))
		r.Get("/orders/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
		r.Post("/orders/{orderId}/status", controllers.OrderTransition(svcs.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleCustomer))

			r.Get("/restaurants/{restaurantId}/offers", controllers.EligibleOffers(svcs.Offers, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Put("/items/{dishId}", controllers.CartUpdateItem(svcs.Cart, logg))
				r.Delete("/items/{dishId}", controllers.CartRemoveItem(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(svcs.Orders, logg))
			r.Get("/orders", controllers.OrderHistory(svcs.Orders, logg))
			r.Post("/orders/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
			r.Post("/orders/{orderId}/reorder", controllers.OrderReorder(svcs.Orders, logg))

			r.Post("/complaints", controllers.ComplaintCreate(svcs.Complaints, logg))
			r.Get("/complaints", controllers.MyComplaints(svcs.Complaints, logg))
		})

		r.Route("/owner", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleRestaurantOwner))
			r.Get("/restaurant", controllers.OwnerRestaurant(svcs.Catalog, logg))
			r.Put("/restaurant/ordering", controllers.OwnerSetOrdering(svcs.Catalog, logg))
			r.Post("/dishes", controllers.OwnerCreateDish(svcs.Catalog, logg))
			r.Put("/dishes/{dishId}", controllers.OwnerUpdateDish(svcs.Catalog, logg))
			r.Delete("/dishes/{dishId}", controllers.OwnerDeleteDish(svcs.Catalog, logg))
			r.Put("/dishes/{dishId}/availability", controllers.OwnerSetDishAvailability(svcs.Catalog, logg))
			r.Get("/orders", controllers.RestaurantOrders(svcs.Orders, logg))
		})

		r.Route("/partner", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleDeliveryPartner))
			r.Get("/me", controllers.PartnerProfile(svcs.Delivery, logg))
			r.Put("/availability", controllers.PartnerSetAvailability(svcs.Delivery, logg))
			r.Get("/orders", controllers.PartnerOrders(svcs.Orders, logg))
		})

		r.Route("/support", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleCustomerCare, enums.RoleAdmin))
			r.Get("/complaints", controllers.ComplaintQueue(svcs.Complaints, logg))
			r.Post("/complaints/{complaintId}/resolve", controllers.ComplaintResolve(svcs.Complaints, logg))
		})
	})

	return r
}
