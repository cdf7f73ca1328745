package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/driftgames/arcade/internal/metrics"
	ledgerRepo "github.com/driftgames/arcade/pkg/repositories/ledger"
	"github.com/driftgames/arcade/pkg/services/betting"
	"github.com/driftgames/arcade/pkg/services/blackjack"
	"github.com/driftgames/arcade/pkg/services/shop"
	"github.com/driftgames/arcade/pkg/services/slots"
	"github.com/driftgames/arcade/pkg/services/stats"
	"github.com/driftgames/arcade/pkg/services/wallet"
)

// Server exposes the arcade over HTTP for the UI client.
type Server struct {
	wallet    *wallet.Service
	slots     *slots.Engine
	blackjack *blackjack.Table
	shop      *shop.Service
	stats     *stats.Service
	ledger    ledgerRepo.Repository
	metrics   *metrics.Metrics
	log       *zap.Logger

	slotsBets *betting.Controller
	bjBets    *betting.Controller

	http *http.Server
}

// New wires the handlers and builds the HTTP server. Each game gets
// its own hold-to-repeat bet controller.
func New(addr string,
	w *wallet.Service,
	slotsEngine *slots.Engine,
	bjTable *blackjack.Table,
	shopSvc *shop.Service,
	statsSvc *stats.Service,
	ledger ledgerRepo.Repository,
	m *metrics.Metrics,
	log *zap.Logger,
) *Server {
	s := &Server{
		wallet:    w,
		slots:     slotsEngine,
		blackjack: bjTable,
		shop:      shopSvc,
		stats:     statsSvc,
		ledger:    ledger,
		metrics:   m,
		log:       log,
		slotsBets: betting.NewController(slotsEngine, betting.WithLogger(log)),
		bjBets:    betting.NewController(bjTable, betting.WithLogger(log)),
	}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/wallet", s.handleWallet)
		r.Get("/wallet/history", s.handleWalletHistory)
		r.Post("/wallet/reset", s.handleWalletReset)

		r.Route("/slots", func(r chi.Router) {
			r.Get("/", s.handleSlotsState)
			r.Post("/spin", s.handleSlotsSpin)
			r.Post("/bet/press", s.handleBetPress(s.slotsBets))
			r.Post("/bet/release", s.handleBetRelease(s.slotsBets))
		})

		r.Route("/blackjack", func(r chi.Router) {
			r.Get("/", s.handleBlackjackState)
			r.Post("/deal", s.handleBlackjackDeal)
			r.Post("/hit", s.handleBlackjackHit)
			r.Post("/stand", s.handleBlackjackStand)
			r.Post("/bet/press", s.handleBetPress(s.bjBets))
			r.Post("/bet/release", s.handleBetRelease(s.bjBets))
		})

		r.Route("/shop", func(r chi.Router) {
			r.Get("/", s.handleShopList)
			r.Post("/buy", s.handleShopBuy)
			r.Post("/equip", s.handleShopEquip)
		})

		r.Get("/stats/{game}", s.handleStats)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return r
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown releases held bet controllers and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.slotsBets.Release()
	s.bjBets.Release()
	return s.http.Shutdown(ctx)
}
