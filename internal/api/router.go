package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/campus-closet/internal/api/handlers"
	"github.com/baharkarakas/campus-closet/internal/auth"
	"github.com/baharkarakas/campus-closet/internal/config"
	"github.com/baharkarakas/campus-closet/internal/metrics"
	"github.com/baharkarakas/campus-closet/internal/middleware"
	"github.com/baharkarakas/campus-closet/internal/models"
)

type RouterDeps struct {
	Cfg           config.Config
	Tokens        *auth.TokenManager
	Interactions  handlers.InteractionService
	Catalog       handlers.CatalogService
	Notifications handlers.NotificationService
	Users         handlers.UserService
	Cart          handlers.CartService
	Buyer         handlers.BuyerService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	ih := handlers.NewInteractionHandler(d.Interactions)
	sh := handlers.NewSellerHandler(d.Catalog)
	bh := handlers.NewBuyerHandler(d.Catalog, d.Notifications, d.Buyer)
	ch := handlers.NewCartHandler(d.Cart)
	ah := handlers.NewAuthHandler(d.Users)

	authn := func(next http.Handler) http.Handler { return next }
	sellerOnly := authn
	if d.Cfg.AuthRequired {
		authn = middleware.NewAuthMiddleware(d.Tokens, d.Cfg.Env).Auth
		sellerOnly = middleware.RequireRole(models.RoleSeller, models.RoleBoth)
	}

	r.Route("/api", func(r chi.Router) {
		// ---------- auth ----------
		r.Post("/auth/signup", ah.Signup)
		r.Post("/auth/login", ah.Login)
		r.Post("/auth/refresh", ah.Refresh)

		// ---------- buy / rent workflow ----------
		r.Route("/interaction", func(r chi.Router) {
			r.Use(authn)
			r.Post("/buy", ih.Buy)
			r.Post("/rent", ih.Rent)
			r.Put("/respond/{id}", ih.Respond)
			r.Get("/pending/{sellerId}", ih.Pending)
			r.Get("/myrequests/{userId}", ih.MyRequests)
		})

		// ---------- seller dashboard ----------
		r.Route("/seller", func(r chi.Router) {
			r.Use(authn, sellerOnly)
			r.Post("/item", sh.AddItem)
			r.Put("/item/{id}", sh.UpdateItem)
			r.Delete("/item/{id}", sh.DeleteItem)
			r.Get("/items/{sellerId}", sh.Items)
			r.Get("/stats/{sellerId}", sh.Stats)
			r.Get("/transactions/{sellerId}", sh.Transactions)
			r.Get("/rentals/{sellerId}", sh.Rentals)
			r.Patch("/rental/end/{rentalId}", ih.EndRental)
		})

		// ---------- buyer ----------
		r.Route("/buyer", func(r chi.Router) {
			r.Use(authn)
			r.Get("/items", bh.Items)
			r.Get("/items/{itemId}/reviews", bh.Reviews)
			r.Get("/notifications/{userId}", bh.Notifications)
			r.Post("/wishlist", bh.AddToWishlist)
			r.Get("/wishlist/{userId}", bh.Wishlist)
			r.Delete("/wishlist/{id}", bh.RemoveFromWishlist)
			r.Post("/review", bh.AddReview)
		})

		// ---------- cart ----------
		r.Route("/cart", func(r chi.Router) {
			r.Use(authn)
			r.Post("/", ch.Add)
			r.Post("/checkout", ch.Checkout)
			r.Get("/{userId}", ch.Get)
			r.Delete("/{id}", ch.Remove)
		})

		r.Get("/categories/{slug}/products", bh.Category)
	})

	return r
}
