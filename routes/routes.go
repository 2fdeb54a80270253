package routes

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/career-day/docs"
	"github.com/Dosada05/career-day/handlers"
	"github.com/Dosada05/career-day/metrics"
	"github.com/Dosada05/career-day/middleware"
)

const requestTimeout = 30 * time.Second

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Milestone *handlers.MilestoneHandler
	Prize     *handlers.PrizeHandler
	Admin     *handlers.AdminHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	Resolver    middleware.IdentityResolver
	AuthLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	CORSOrigins []string
	// UploadsDir раздаётся под /uploads/; пусто, если файлы лежат в R2.
	UploadsDir string
	Logger     *slog.Logger
}

func SetupRoutes(router *chi.Mux, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(opts.Metrics.Instrument)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", opts.Metrics.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(opts.UploadsDir)}))
		router.Handle("/uploads/*", fs)
	}

	// вебсокет без таймаута: соединение живёт долго
	router.Get("/ws/prizes", h.WebSocket.ServePrizes)

	authenticate := middleware.Authenticate(opts.Resolver, opts.Logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Route("/auth", func(r chi.Router) {
			r.Use(opts.AuthLimiter.Handler)
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/login/json", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
		})

		r.Get("/prizes", h.Prize.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/users/me", h.User.Me)
			r.Get("/users/me/progress", h.User.Progress)
			r.Get("/users/me/claimed-prizes", h.User.ClaimedPrizes)

			r.Route("/test", func(r chi.Router) {
				r.Get("/questions", h.Milestone.Questions)
				r.Post("/complete", h.Milestone.CompleteTest)
				r.Post("/skip", h.Milestone.SkipTest)
				r.Post("/set-direction", h.Milestone.SetDirection)
			})

			r.Post("/games/complete", h.Milestone.CompleteGame)

			r.Post("/applications", h.Milestone.SubmitApplication)
			r.Get("/applications/me", h.Milestone.MyApplication)

			r.Post("/prizes/{prizeID}/claim", h.Prize.Claim)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Get("/analytics", h.Admin.Analytics)
			r.Get("/users", h.Admin.Users)
			r.Get("/users/{userID}/claimed-prizes", h.User.ParticipantClaims)
			r.Get("/applications", h.Admin.Applications)

			r.Get("/settings", h.Admin.GetSettings)
			r.Patch("/settings", h.Admin.UpdateSettings)

			r.Get("/prizes", h.Admin.ListPrizes)
			r.Post("/prizes", h.Admin.CreatePrize)
			r.Put("/prizes/{prizeID}", h.Admin.UpdatePrize)
			r.Delete("/prizes/{prizeID}", h.Admin.DeletePrize)

			r.Get("/questions", h.Admin.ListQuestions)
			r.Post("/questions", h.Admin.CreateQuestion)
			r.Put("/questions/{questionID}", h.Admin.UpdateQuestion)
			r.Delete("/questions/{questionID}", h.Admin.DeleteQuestion)
		})
	})
}

// filesOnly отдаёт только файлы: на каталоги отвечаем 404, листинг резюме наружу не уходит.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
