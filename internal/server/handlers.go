package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/driftgames/arcade/pkg/entities"
	"github.com/driftgames/arcade/pkg/services/betting"
	"github.com/driftgames/arcade/pkg/services/blackjack"
	"github.com/driftgames/arcade/pkg/services/shop"
	"github.com/driftgames/arcade/pkg/services/slots"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("failed to encode response", zap.Error(err))
	}
}

// writeError maps refusal errors to 4xx with a human-readable message.
// Refusals leave game state untouched, so the client just shows the
// message and carries on.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, slots.ErrInsufficientFunds),
		errors.Is(err, blackjack.ErrInsufficientFunds),
		errors.Is(err, shop.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, slots.ErrSpinInProgress),
		errors.Is(err, blackjack.ErrRoundInProgress),
		errors.Is(err, shop.ErrAlreadyOwned):
		status = http.StatusConflict
	case errors.Is(err, blackjack.ErrInvalidAction),
		errors.Is(err, shop.ErrNotOwned):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, shop.ErrUnknownItem):
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

type walletResponse struct {
	Balance int64 `json:"balance"`
}

func (s *Server) handleWallet(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, walletResponse{Balance: s.wallet.Balance()})
}

func (s *Server) handleWalletReset(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, walletResponse{Balance: s.wallet.Reset()})
}

const defaultHistoryLimit = 20

// handleWalletHistory returns recent wallet transactions, newest first.
// A limit query parameter caps the page; without a ledger the history
// is simply empty.
func (s *Server) handleWalletHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	txs := []*entities.Transaction{}
	if s.ledger != nil {
		var err error
		txs, err = s.ledger.GetTransactions(r.Context(), limit)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

type slotsStateResponse struct {
	Bet     int64 `json:"bet"`
	Best    int64 `json:"best"`
	Balance int64 `json:"balance"`
}

func (s *Server) handleSlotsState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, slotsStateResponse{
		Bet:     s.slots.Bet(),
		Best:    s.slots.Best(),
		Balance: s.wallet.Balance(),
	})
}

func (s *Server) handleSlotsSpin(w http.ResponseWriter, r *http.Request) {
	bet := s.slots.Bet()
	result, err := s.slots.Spin(r.Context(), bet)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveRound(slots.GameName, string(result.Outcome), bet, result.Payout)
	}
	s.writeJSON(w, http.StatusOK, result)
}

type betRequest struct {
	Direction int `json:"direction"`
}

type betResponse struct {
	Bet int64 `json:"bet"`
}

func (s *Server) handleBetPress(c *betting.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req betRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		s.writeJSON(w, http.StatusOK, betResponse{Bet: c.Press(req.Direction)})
	}
}

func (s *Server) handleBetRelease(c *betting.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		c.Release()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleBlackjackState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.blackjack.View())
}

func (s *Server) handleBlackjackDeal(w http.ResponseWriter, r *http.Request) {
	v, err := s.blackjack.Deal(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.observeBlackjack(v)
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleBlackjackHit(w http.ResponseWriter, r *http.Request) {
	v, err := s.blackjack.Hit(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.observeBlackjack(v)
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleBlackjackStand(w http.ResponseWriter, r *http.Request) {
	v, err := s.blackjack.Stand(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.observeBlackjack(v)
	s.writeJSON(w, http.StatusOK, v)
}

// observeBlackjack records a settled round. The stake is what the
// round actually debited; the bet may already have moved for the next
// round.
func (s *Server) observeBlackjack(v *blackjack.View) {
	if s.metrics == nil || v.Phase != blackjack.PhaseSettled {
		return
	}
	s.metrics.ObserveRound(blackjack.GameName, string(v.Outcome), v.Stake, v.Payout)
}

func (s *Server) handleShopList(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":   s.shop.Items(),
		"balance": s.wallet.Balance(),
	})
}

type shopRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleShopBuy(w http.ResponseWriter, r *http.Request) {
	var req shopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := s.shop.Purchase(req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": s.wallet.Balance(),
		"owned":   s.shop.Owned(req.ID),
	})
}

func (s *Server) handleShopEquip(w http.ResponseWriter, r *http.Request) {
	var req shopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := s.shop.Equip(req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	game := chi.URLParam(r, "game")
	sum, err := s.stats.Summarize(r.Context(), game)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}
