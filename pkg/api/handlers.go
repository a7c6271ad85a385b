package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chainsafe/ethgas/pkg/alerts"
	apperrors "github.com/chainsafe/ethgas/pkg/app/errors"
	"github.com/chainsafe/ethgas/pkg/export"
	"github.com/chainsafe/ethgas/pkg/history"
	"github.com/chainsafe/ethgas/pkg/keccak"
	"github.com/chainsafe/ethgas/pkg/networks"
	"github.com/chainsafe/ethgas/pkg/predict"
	"github.com/chainsafe/ethgas/pkg/stats"
	"github.com/chainsafe/ethgas/pkg/tracker"
)

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// networkParam resolves the {network} URL parameter against the
// registry.
func networkParam(r *http.Request) (networks.Network, error) {
	id := chi.URLParam(r, "network")
	net, err := networks.Get(id)
	if err != nil {
		return networks.Network{}, apperrors.ResourceNotFoundError(err, fmt.Sprintf("unknown network %q", id))
	}
	return net, nil
}

func intQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.BadRequestError(err, fmt.Sprintf("query parameter %q must be a positive integer", key))
	}
	return n, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"service":  serviceName,
		"version":  serviceVersion,
		"networks": networks.IDs(),
		"endpoints": []string{
			"GET /health",
			"GET /gas/{network}",
			"GET /networks",
			"GET /history/{network}?limit=N",
			"GET /stats/{network}?hours=N",
			"GET /predict/{network}?method=moving_average|exponential|linear",
			"GET /predict/{network}/window",
			"GET /compare?tx=simple&networks=a,b,c",
			"GET /export/{network}?format=csv|json&limit=N",
			"GET /alerts",
			"POST /alerts",
			"DELETE /alerts/{id}",
			"POST /hash",
			"GET /metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleGas(w http.ResponseWriter, r *http.Request) error {
	net, err := networkParam(r)
	if err != nil {
		return err
	}

	sample, err := s.engine.Snapshot(r.Context(), net.ID)
	if err != nil {
		return apperrors.UpstreamError(err, fmt.Sprintf("sampling %s failed", net.ID))
	}

	costs := make([]tracker.Estimate, 0, len(networks.TxTypes()))
	for _, tt := range networks.TxTypes() {
		est, err := tracker.EstimateCost(sample, tt.ID)
		if err != nil {
			return apperrors.GeneralError(err)
		}
		costs = append(costs, est)
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"sample": sample,
		"costs":  costs,
	})
}

func (s *Server) handleNetworks(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{"networks": networks.List()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) error {
	net, err := networkParam(r)
	if err != nil {
		return err
	}
	limit, err := intQuery(r, "limit", 100)
	if err != nil {
		return err
	}

	samples, err := s.store.Recent(r.Context(), net.ID, limit)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	if samples == nil {
		samples = []history.Sample{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"network": net.ID,
		"count":   len(samples),
		"samples": samples,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) error {
	net, err := networkParam(r)
	if err != nil {
		return err
	}
	hours, err := intQuery(r, "hours", 24)
	if err != nil {
		return err
	}

	samples, err := s.store.Since(r.Context(), net.ID, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return apperrors.GeneralError(err)
	}

	summary, _ := stats.Compute(samples)
	var current float64
	if len(samples) > 0 {
		current = samples[len(samples)-1].BaseFee
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"network":        net.ID,
		"hours":          hours,
		"summary":        summary,
		"recommendation": stats.Recommend(current, summary),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) error {
	net, err := networkParam(r)
	if err != nil {
		return err
	}

	method := r.URL.Query().Get("method")
	if method == "" {
		method = "moving_average"
	}

	samples, err := s.store.Since(r.Context(), net.ID, time.Now().Add(-24*time.Hour))
	if err != nil {
		return apperrors.GeneralError(err)
	}

	var forecast *predict.Forecast
	switch method {
	case "moving_average":
		forecast, err = predict.MovingAverage(samples)
	case "exponential":
		forecast, err = predict.Exponential(samples)
	case "linear":
		forecast, err = predict.Linear(samples)
	default:
		return apperrors.BadRequestError(nil, fmt.Sprintf("unknown prediction method %q", method))
	}
	if err != nil {
		if errors.Is(err, predict.ErrInsufficientData) {
			return apperrors.BadRequestError(err, "not enough samples for a forecast")
		}
		return apperrors.GeneralError(err)
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"network":  net.ID,
		"forecast": forecast,
	})
}

func (s *Server) handlePredictWindow(w http.ResponseWriter, r *http.Request) error {
	net, err := networkParam(r)
	if err != nil {
		return err
	}

	samples, err := s.store.Since(r.Context(), net.ID, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		return apperrors.GeneralError(err)
	}

	window, err := predict.BestWindow(samples)
	if err != nil {
		if errors.Is(err, predict.ErrInsufficientData) {
			return apperrors.BadRequestError(err, "not enough samples for a window")
		}
		return apperrors.GeneralError(err)
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"network": net.ID,
		"window":  window,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) error {
	txType := r.URL.Query().Get("tx")
	if txType == "" {
		txType = "simple"
	}

	var networkIDs []string
	if raw := r.URL.Query().Get("networks"); raw != "" {
		networkIDs = strings.Split(raw, ",")
		for _, id := range networkIDs {
			if _, err := networks.Get(id); err != nil {
				return apperrors.ResourceNotFoundError(err, fmt.Sprintf("unknown network %q", id))
			}
		}
	}

	quotes, err := s.engine.Compare(r.Context(), networkIDs, txType)
	if err != nil {
		return apperrors.BadRequestError(err, err.Error())
	}

	results := make([]map[string]any, 0, len(quotes))
	for _, quote := range quotes {
		entry := map[string]any{"network_id": quote.NetworkID}
		if quote.Err != nil {
			entry["error"] = quote.Err.Error()
		} else {
			entry["sample"] = quote.Sample
			entry["estimate"] = quote.Estimate
		}
		results = append(results, entry)
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"tx_type": txType,
		"quotes":  results,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) error {
	net, err := networkParam(r)
	if err != nil {
		return err
	}
	limit, err := intQuery(r, "limit", 1000)
	if err != nil {
		return err
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		return apperrors.BadRequestError(nil, fmt.Sprintf("unsupported export format %q", format))
	}

	samples, err := s.store.Recent(r.Context(), net.ID, limit)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	// Recent is newest first; exports read better chronologically.
	samples = history.Chronological(samples)

	filename := fmt.Sprintf("%s-history.%s", net.ID, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		return export.WriteCSV(w, samples)
	}
	w.Header().Set("Content-Type", "application/json")
	return export.WriteJSON(w, samples)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, _ *http.Request) error {
	rules := s.watcher.List()
	if rules == nil {
		rules = []alerts.Rule{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

type createAlertRequest struct {
	Network   string  `json:"network"`
	Threshold float64 `json:"threshold"`
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) error {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}
	if _, err := networks.Get(req.Network); err != nil {
		return apperrors.ResourceNotFoundError(err, fmt.Sprintf("unknown network %q", req.Network))
	}
	if req.Threshold <= 0 {
		return apperrors.BadRequestError(nil, "threshold must be positive")
	}

	rule := s.watcher.Add(alerts.Rule{Network: req.Network, Threshold: req.Threshold})
	return writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) error {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return apperrors.BadRequestError(err, "invalid rule id")
	}
	if err := s.watcher.Remove(id); err != nil {
		return apperrors.ResourceNotFoundError(err, "alert rule not found")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type hashRequest struct {
	Data hexutil.Bytes `json:"data"`
}

func (s *Server) handleHash(w http.ResponseWriter, r *http.Request) error {
	var req hashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequestError(err, "body must be {\"data\": \"0x...\"}")
	}

	digest := keccak.Sum256(req.Data)
	return writeJSON(w, http.StatusOK, map[string]string{"hash": digest.Hex()})
}
