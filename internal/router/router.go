package router

import (
	"net/http"

	"smarthome-mall/internal/handler"
	"smarthome-mall/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Discount *handler.DiscountHandler
}

// Options holds the credentials and origins checked by the middleware chain.
type Options struct {
	APIKey         string
	JWTSecret      string
	AllowedOrigins []string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> CORS -> APIKeyAuth -> Authenticate
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.APIKeyAuth(opts.APIKey, logger, "/health"))
	r.Use(middleware.Authenticate(opts.JWTSecret, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Product.List)
		r.Get("/products/{id}", h.Product.GetByID)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productId}/{variant}", h.Cart.SetQuantity)
			r.Delete("/items/{productId}/{variant}", h.Cart.RemoveItem)
		})

		r.Post("/checkout/quote", h.Order.Quote)
		r.Post("/orders", h.Order.Create)
		r.Get("/orders/{number}", h.Order.GetByNumber)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireIdentity)

			r.Get("/orders", h.Order.List)
			r.Get("/discounts", h.Discount.List)
			r.Post("/discounts", h.Discount.Create)
			r.Put("/discounts/{code}/deactivate", h.Discount.Deactivate)
			r.Delete("/discounts/{code}", h.Discount.Delete)
		})
	})

	return r
}
