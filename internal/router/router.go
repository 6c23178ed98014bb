// Package router sets up all HTTP routes and middleware chains for the
// agency site. It organizes routes into the public API, read by the site
// frontend, and the admin API, used by the back office.
package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"agencysite/internal/handlers"
	"agencysite/internal/middleware"
	"agencysite/internal/models"
	"agencysite/internal/session"
	"agencysite/internal/settings"
	"agencysite/internal/store"
)

// Stores groups the data stores the routes are served from.
type Stores struct {
	Banners      *store.BannerStore
	Sliders      *store.SliderStore
	Services     *store.ServiceStore
	Testimonials *store.TestimonialStore
	Portfolios   *store.PortfolioStore
	Team         *store.TeamMemberStore
	FAQs         *store.FAQStore
	Blogs        *store.BlogStore
	Users        *store.UserStore
	Enquiries    *store.EnquiryStore
	Visitors     *store.VisitorStore
	Assets       *store.AssetStore
	Settings     *store.SettingsStore
}

// NewStores creates every store on db. opts apply to the ordered
// content stores.
func NewStores(db *sql.DB, opts ...store.Option) Stores {
	return Stores{
		Banners:      store.NewBannerStore(db, opts...),
		Sliders:      store.NewSliderStore(db, opts...),
		Services:     store.NewServiceStore(db, opts...),
		Testimonials: store.NewTestimonialStore(db, opts...),
		Portfolios:   store.NewPortfolioStore(db, opts...),
		Team:         store.NewTeamMemberStore(db, opts...),
		FAQs:         store.NewFAQStore(db, opts...),
		Blogs:        store.NewBlogStore(db, opts...),
		Users:        store.NewUserStore(db),
		Enquiries:    store.NewEnquiryStore(db),
		Visitors:     store.NewVisitorStore(db),
		Assets:       store.NewAssetStore(db),
		Settings:     store.NewSettingsStore(db),
	}
}

// Deps holds everything the router needs.
type Deps struct {
	DB       *sql.DB
	Sessions *session.Store
	Stores   Stores
	Resolver *settings.Resolver
	// Objects is nil when object storage is not configured; uploads then
	// answer 503.
	Objects handlers.ObjectStore
	// IPs resolves client addresses for the visitor log.
	IPs middleware.IPResolver

	// LoginLimiter and EnquiryLimiter throttle the two unauthenticated
	// write endpoints. Nil disables the limit.
	LoginLimiter   *middleware.RateLimiter
	EnquiryLimiter *middleware.RateLimiter
}

// NewLimiters returns the default limiters, counted in Valkey: 10 login
// attempts and 5 enquiries per client address per minute.
func NewLimiters(client *redis.Client, ips middleware.IPResolver) (login, enquiry *middleware.RateLimiter) {
	return middleware.NewRateLimiter(client, "login", 10, time.Minute, ips),
		middleware.NewRateLimiter(client, "enquiry", 5, time.Minute, ips)
}

func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	s := d.Stores

	auth := handlers.NewAuth(d.Sessions, s.Users)
	users := handlers.NewUsers(s.Users)
	settingsH := handlers.NewSettings(s.Settings, d.Resolver)
	enquiries := handlers.NewEnquiries(s.Enquiries, s.Services)
	public := handlers.NewPublic(s.Services, s.Blogs, d.Resolver)
	uploads := handlers.NewUploads(s.Assets, d.Objects, d.Resolver)
	dashboard := handlers.NewDashboard(map[string]handlers.Counter{
		"banners":      s.Banners,
		"sliders":      s.Sliders,
		"services":     s.Services,
		"testimonials": s.Testimonials,
		"portfolios":   s.Portfolios,
		"team":         s.Team,
		"faqs":         s.FAQs,
		"blogs":        s.Blogs,
	}, s.Enquiries, s.Visitors)

	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check: no auth, no CSRF, not tracked.
	r.Get("/health", handlers.Health(d.DB))

	// Public API read by the site frontend.
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.TrackVisitors(s.Visitors, d.IPs))

			r.Get("/settings", settingsH.Public)
			r.Get("/banners", handlers.ListVisible(s.Banners))
			r.Get("/sliders", handlers.ListVisible(s.Sliders))
			r.Get("/services", handlers.ListVisible(s.Services))
			r.Get("/services/{slug}", public.Service)
			r.Get("/testimonials", handlers.ListVisible(s.Testimonials))
			r.Get("/portfolios", handlers.ListVisible(s.Portfolios))
			r.Get("/team", handlers.ListVisible(s.Team))
			r.Get("/faqs", handlers.ListVisible(s.FAQs))
			r.Get("/blogs", public.Blogs)
			r.Get("/blogs/{slug}", public.Blog)
		})

		r.With(limit(d.EnquiryLimiter)).Post("/enquiries", enquiries.Submit)
	})

	// Admin API. CSRF applies to the whole group and only bites once a
	// session exists.
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.With(limit(d.LoginLimiter)).Post("/login", auth.Login)

		// Signed in, 2FA not necessarily completed.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)
			r.Get("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		// Authenticated and 2FA-verified.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/dashboard", dashboard.Overview)
			r.Get("/visitors", dashboard.Visitors)

			r.Route("/banners", handlers.NewCollection[models.Banner](s.Banners).Routes)
			r.Route("/sliders", handlers.NewCollection[models.Slider](s.Sliders).Routes)
			r.Route("/services", handlers.NewCollection[models.Service](s.Services).Routes)
			r.Route("/testimonials", handlers.NewCollection[models.Testimonial](s.Testimonials).Routes)
			r.Route("/portfolios", handlers.NewCollection[models.Portfolio](s.Portfolios).Routes)
			r.Route("/team", handlers.NewCollection[models.TeamMember](s.Team).Routes)
			r.Route("/faqs", handlers.NewCollection[models.FAQ](s.FAQs).Routes)
			r.Route("/blogs", handlers.NewCollection[models.Blog](s.Blogs).Routes)

			r.Get("/settings", settingsH.Get)
			r.Put("/settings", settingsH.Update)

			r.Route("/enquiries", func(r chi.Router) {
				r.Get("/", enquiries.List)
				r.Get("/{id}", enquiries.Get)
				r.Post("/{id}/read", enquiries.MarkRead)
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Get("/", uploads.List)
				r.Post("/", uploads.Upload)
				r.Delete("/{id}", uploads.Delete)
			})

			// User management, admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", users.List)
				r.Post("/", users.Create)
				r.Post("/{id}/reset-2fa", users.ResetTwoFA)
			})
		})
	})

	return r
}
