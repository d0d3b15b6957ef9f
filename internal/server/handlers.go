package server

import (
	"oauth-relay/internal/handlers"
	"oauth-relay/internal/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(ctx *middlewares.AppContext) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ctx.Config.CORS.AllowedOrigins,
		AllowedMethods:   ctx.Config.CORS.AllowedMethods,
		AllowedHeaders:   ctx.Config.CORS.AllowedHeaders,
		ExposedHeaders:   ctx.Config.CORS.ExposedHeaders,
		AllowCredentials: ctx.Config.CORS.AllowCredentials,
		MaxAge:           ctx.Config.CORS.MaxAgeSeconds,
	}))

	r.Use(ctx.SessionManager.LoadAndSave)

	r.Use(middlewares.AppContextMiddleware(ctx))
	r.Use(middlewares.ClientInfoMiddleware)

	r.Use(middleware.Compress(5))

	// Paths the browser client has always used.
	r.Post("/code", ctx.HandlerFunc(handlers.POSTCodeHandler))
	r.With(middlewares.RequireBearer).Get("/repos", ctx.HandlerFunc(handlers.GETReposHandler))

	r.Route("/api", func(r chi.Router) {
		r.Post("/code", ctx.HandlerFunc(handlers.POSTCodeHandler))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireBearer)
			r.Get("/repos", ctx.HandlerFunc(handlers.GETReposHandler))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", ctx.HandlerFunc(handlers.GETLoginHandler))
			r.With(middlewares.RequireBearer).Get("/me", ctx.HandlerFunc(handlers.GETAuthStatusHandler))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))
		})
	})

	return r
}

func setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/debug", middleware.Profiler())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
