package http

import (
	"context"
	"net/http"
	"time"

	"github.com/eventgrid/eventgrid/frontend"
	slackctrl "github.com/eventgrid/eventgrid/pkg/controller/slack"
	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/service/payment"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	serviceName    = "EventGrid API"
	serviceVersion = "1.0.0"
)

// UseCases bundles the use cases served over HTTP
type UseCases struct {
	Auth        usecase.AuthUseCase
	Event       usecase.EventUseCase
	Task        usecase.TaskUseCase
	Dashboard   usecase.DashboardUseCase
	Marketplace usecase.MarketplaceUseCase
	Venue       usecase.VenueUseCase
	Booking     usecase.BookingUseCase
	Payment     usecase.PaymentUseCase
	Planner     usecase.PlannerUseCase
	AR          usecase.ARUseCase
	Live        usecase.LiveUseCase
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

type serverOptions struct {
	corsOrigins    []string
	secureCookie   bool
	streamInterval time.Duration
	slackSecret    string
	slackClient    interfaces.SlackClient
}

// Option configures the HTTP server
type Option func(*serverOptions)

// WithCORSOrigins sets the browser origins allowed to call the API
func WithCORSOrigins(origins []string) Option {
	return func(o *serverOptions) {
		o.corsOrigins = origins
	}
}

// WithSecureCookie marks the session cookie as Secure
func WithSecureCookie(secure bool) Option {
	return func(o *serverOptions) {
		o.secureCookie = secure
	}
}

// WithStreamInterval sets how often the live stream pushes a snapshot
func WithStreamInterval(interval time.Duration) Option {
	return func(o *serverOptions) {
		o.streamInterval = interval
	}
}

// WithSlackInteractions enables the Slack interaction webhook. Requests are
// verified with signingSecret; client is used to update resolved alert messages.
func WithSlackInteractions(signingSecret string, client interfaces.SlackClient) Option {
	return func(o *serverOptions) {
		o.slackSecret = signingSecret
		o.slackClient = client
	}
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, uc *UseCases, opts ...Option) (*Server, error) {
	router, err := NewRouter(ctx, uc, opts...)
	if err != nil {
		return nil, err
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}, nil
}

// NewRouter assembles the API, page and static routes
func NewRouter(ctx context.Context, uc *UseCases, opts ...Option) (chi.Router, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	options := serverOptions{
		corsOrigins:    []string{"*"},
		streamInterval: DefaultStreamInterval,
	}
	for _, opt := range opts {
		opt(&options)
	}

	authMiddleware := NewMiddleware(uc.Auth)
	authHandler := NewAuthHandler(uc.Auth)
	eventHandler := NewEventHandler(uc.Event, uc.Task, uc.Dashboard)
	marketplaceHandler := NewMarketplaceHandler(uc.Marketplace, uc.Venue)
	bookingHandler := NewBookingHandler(uc.Booking, uc.Payment)
	plannerHandler := NewPlannerHandler(uc.Planner, uc.AR)
	liveHandler := NewLiveHandler(uc.Live, options.streamInterval, options.corsOrigins)

	pageHandler, err := NewPageHandler(frontend.Templates(), uc, options.secureCookie)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   options.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", payment.SignatureHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/me", authHandler.HandleMe)
				r.Post("/logout", authHandler.HandleLogout)
				r.Put("/me/preferences", authHandler.HandleUpdatePreferences)
			})
		})

		// Marketplace and venue listings are browsable without a session
		r.Route("/marketplace", func(r chi.Router) {
			r.Get("/vendors", marketplaceHandler.HandleSearchVendors)
			r.Get("/vendors/{vendorID}", marketplaceHandler.HandleGetVendor)
			r.Get("/categories", marketplaceHandler.HandleCategories)
			r.Get("/featured", marketplaceHandler.HandleFeatured)
		})

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", marketplaceHandler.HandleListVenues)
			r.Get("/{venueID}", marketplaceHandler.HandleGetVenue)
			r.With(authMiddleware.RequireAuth).Post("/", marketplaceHandler.HandleCreateVenue)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/webhook", bookingHandler.HandleWebhook)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Post("/create-payment-intent", bookingHandler.HandleCreatePaymentIntent)
				r.Post("/confirm-payment", bookingHandler.HandleConfirmPayment)
				r.Get("/history", bookingHandler.HandleHistory)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.HandleList)
				r.Post("/", eventHandler.HandleCreate)
				r.Route("/{eventID}", func(r chi.Router) {
					r.Get("/", eventHandler.HandleGet)
					r.Put("/", eventHandler.HandleUpdate)
					r.Delete("/", eventHandler.HandleDelete)
					r.Get("/tasks", eventHandler.HandleListTasks)
					r.Post("/tasks", eventHandler.HandleCreateTask)
				})
			})

			r.Route("/tasks/{taskID}", func(r chi.Router) {
				r.Put("/", eventHandler.HandleUpdateTask)
				r.Delete("/", eventHandler.HandleDeleteTask)
			})

			r.Get("/dashboard", eventHandler.HandleDashboard)

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", bookingHandler.HandleList)
				r.Post("/", bookingHandler.HandleCreate)
				r.Get("/{bookingID}", bookingHandler.HandleGet)
				r.Put("/{bookingID}/status", bookingHandler.HandleUpdateStatus)
			})

			r.Route("/ai", func(r chi.Router) {
				r.Post("/event-designer", plannerHandler.HandleEventDesigner)
				r.Post("/vendor-recommendations", plannerHandler.HandleVendorRecommendations)
				r.Post("/schedule-optimizer", plannerHandler.HandleScheduleOptimizer)
			})

			r.Route("/ar", func(r chi.Router) {
				r.Get("/venues/{venueID}/ar-data", plannerHandler.HandleARData)
				r.Post("/venues/{venueID}/layout-preview", plannerHandler.HandleLayoutPreview)
				r.Get("/venues/{venueID}/virtual-tour", plannerHandler.HandleVirtualTour)
				r.Post("/capacity-optimizer", plannerHandler.HandleCapacityOptimizer)
			})
		})

		r.Route("/live/events/{eventID}", func(r chi.Router) {
			r.With(authMiddleware.RequireStreamAuth).Get("/stream", liveHandler.HandleStream)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/dashboard", liveHandler.HandleDashboard)
				r.Post("/checkin", liveHandler.HandleCheckIn)
				r.Get("/vendors/status", liveHandler.HandleVendorStatuses)
				r.Put("/vendors/{vendorID}/status", liveHandler.HandleUpdateVendorStatus)
				r.Get("/alerts", liveHandler.HandleListAlerts)
				r.Post("/alerts", liveHandler.HandleRaiseAlert)
				r.Post("/alerts/{alertID}/resolve", liveHandler.HandleResolveAlert)
				r.Post("/controls", liveHandler.HandleControl)
			})
		})
	})

	// Server-rendered pages
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware.OptionalAuth)
		r.Get("/", pageHandler.HandleLanding)
		r.Get("/auth", pageHandler.HandleAuth)
		r.Post("/auth/signin", pageHandler.HandleSignIn)
		r.Post("/auth/signup", pageHandler.HandleSignUp)
		r.Post("/auth/signout", pageHandler.HandleSignOut)
		r.Get("/dashboard", pageHandler.HandleDashboard)
		for path := range sections {
			r.Get(path, pageHandler.HandleSection)
		}
	})

	if options.slackSecret != "" {
		slackHandler := slackctrl.NewHandler(uc.Live, options.slackSecret, options.slackClient)
		router.Post("/hooks/slack/interaction", slackHandler.HandleInteraction)
	}

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(frontend.Static())))

	ctxlog.From(ctx).Info("HTTP routes assembled",
		"corsOrigins", options.corsOrigins,
		"streamInterval", options.streamInterval,
		"slackInteractions", options.slackSecret != "",
	)

	return router, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
