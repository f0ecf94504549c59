package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/OpNop/TINY-API/banner"
	"github.com/OpNop/TINY-API/config"
	"github.com/OpNop/TINY-API/service"
)

// Server is the HTTP surface. The same route set is mounted under /v1 and
// /v2; the versions share handlers.
type Server struct {
	auth    *service.AuthService
	members *service.MemberService
	guilds  *service.GuildService
	lottery *service.LotteryService
	banner  *banner.Generator

	cookieDomain string
	serviceKey   string
	httpServer   *http.Server
}

// NewServer wires the HTTP server and its routes
func NewServer(cfg *config.Config, auth *service.AuthService, members *service.MemberService, guilds *service.GuildService, lottery *service.LotteryService, bannerGen *banner.Generator) *Server {
	s := &Server{
		auth:         auth,
		members:      members,
		guilds:       guilds,
		lottery:      lottery,
		banner:       bannerGen,
		cookieDomain: cfg.CookieDomain,
		serviceKey:   cfg.ServiceKey,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*.tinyarmy.org", "https://tinyarmy.org", "http://localhost:*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Page-Size", "X-Result-Count", "X-Page-Total", "X-Result-Total"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	for _, version := range []string{"/v1", "/v2"} {
		r.Route(version, s.versionRoutes)
	}

	return r
}

func (s *Server) versionRoutes(r chi.Router) {
	// Public surface
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/refresh_token", s.handleRefresh)

	r.Get("/guild/logs", s.handleGuildLogs)
	r.Get("/guild/{guild}/log", s.handleGuildLogs)

	r.Get("/lottery/status", s.handleLotteryStatus)
	r.Get("/lottery/pot", s.handleLotteryPot)
	r.Get("/lottery/pot/image", s.handleLotteryImage)

	// Authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/guild/stats", s.handleGuildStats)
		r.Get("/guild/{id}", s.handleGuildDetails)
		r.Get("/guild/{id}/members", s.handleGuildRoster)

		r.Get("/members/banned", s.handleBanList)
		r.Get("/members/search", s.handleMemberSearch)
		r.Post("/members/update", s.handleMemberUpdate)
		r.Get("/members/notes", s.handleNotes)
		r.Get("/members/{account}", s.handleMemberProfile)
		r.Post("/members/{account}/key", s.handleSetKey)
		r.Get("/members/{account}/discord", s.handleGetDiscord)
		r.Post("/members/{account}/discord", s.handleSetDiscord)
		r.Get("/members/{account}/notes", s.handleNotes)
		r.Post("/members/{account}/notes", s.handleAddNote)

		r.Get("/search", s.handleSearch)

		r.Get("/lottery/{account}/entries", s.handleLotteryTickets)
		r.Get("/lottery/listEntries/{account}", s.handleLotteryHistory)
	})
}

// Start begins serving HTTP traffic. It blocks until the server stops.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
