package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/buckalew/retirement-sim/internal/calculation"
	"github.com/buckalew/retirement-sim/internal/domain"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "active_runs": len(s.runner.Active())})
}

type compoundRequest struct {
	InitialInvestment   float64 `json:"initial_investment"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	AnnualReturn        float64 `json:"annual_return"`
	Years               int     `json:"years"`
}

func (s *Server) handleCompound(w http.ResponseWriter, r *http.Request) {
	var req compoundRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := calculation.CompoundInvestmentGrowth(req.InitialInvestment, req.MonthlyContribution, req.AnnualReturn, req.Years)
	if err != nil {
		s.writeDomainError(w, "api.handleCompound", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type retirementRequest struct {
	CurrentAge           int     `json:"current_age"`
	RetirementAge        int     `json:"retirement_age"`
	CurrentSavings       float64 `json:"current_savings"`
	MonthlyContribution  float64 `json:"monthly_contribution"`
	AnnualReturn         float64 `json:"annual_return"`
	DesiredMonthlyIncome float64 `json:"desired_monthly_income"`
}

func (s *Server) handleRetirement(w http.ResponseWriter, r *http.Request) {
	var req retirementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := calculation.RetirementProjection(req.CurrentAge, req.RetirementAge, req.CurrentSavings, req.MonthlyContribution, req.AnnualReturn, req.DesiredMonthlyIncome)
	if err != nil {
		s.writeDomainError(w, "api.handleRetirement", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type mortgageRequest struct {
	Principal   float64 `json:"principal"`
	AnnualRate  float64 `json:"annual_rate"`
	Years       int     `json:"years"`
	DownPayment float64 `json:"down_payment"`
}

func (s *Server) handleMortgage(w http.ResponseWriter, r *http.Request) {
	var req mortgageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := calculation.MortgageAmortization(req.Principal, req.AnnualRate, req.Years, req.DownPayment)
	if err != nil {
		s.writeDomainError(w, "api.handleMortgage", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type simulationRequest struct {
	Input  domain.SimulationInput `json:"input"`
	Config domain.RunConfig       `json:"config"`
}

// runConfig fills zero fields from the server defaults and enforces the run cap.
func (s *Server) runConfig(cfg domain.RunConfig) (domain.RunConfig, error) {
	if cfg.SimulationRuns == 0 {
		cfg.SimulationRuns = s.defaults.SimulationRuns
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = s.defaults.BatchSize
	}
	if cfg.Workers == 0 {
		cfg.Workers = s.defaults.Workers
	}
	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = s.defaults.UpdateInterval
	}
	if s.settings.MaxRuns > 0 && cfg.SimulationRuns > s.settings.MaxRuns {
		return cfg, domain.NewValidationError("simulation_runs", "cannot exceed %d", s.settings.MaxRuns)
	}
	return cfg, nil
}

// handleSimulate runs a simulation within the request. When the server's
// time budget runs out the run is cancelled and the partial result returned.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cfg, err := s.runConfig(req.Config)
	if err != nil {
		s.writeDomainError(w, "api.handleSimulate", err)
		return
	}

	ctx := r.Context()
	if s.settings.SimulationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.SimulationTimeout)
		defer cancel()
	}

	res, err := s.runner.Run(ctx, req.Input, cfg, nil)
	if err != nil {
		s.writeDomainError(w, "api.handleSimulate", err)
		return
	}
	if res.Status == calculation.StatusCancelled {
		s.logger.Info("simulation stopped early",
			zap.String("op", "api.handleSimulate"),
			zap.String("run_id", res.ID),
			zap.Int("completed_runs", res.Output.CompletedRuns),
			zap.Duration("timeout", s.settings.SimulationTimeout))
	}
	writeJSON(w, http.StatusOK, res)
}

type runStatusResponse struct {
	ID       string                        `json:"id"`
	Status   calculation.RunStatus         `json:"status"`
	Progress *calculation.ProgressSnapshot `json:"progress,omitempty"`
	Result   *calculation.RunResult        `json:"result,omitempty"`
	Error    string                        `json:"error,omitempty"`
}

func statusOf(h *calculation.Handle) runStatusResponse {
	resp := runStatusResponse{ID: h.ID, Status: h.Status(), Progress: h.Progress()}
	result, err := h.Result()
	resp.Result = result
	if err != nil {
		resp.Error = err.Error()
		var anomaly *domain.NumericAnomalyError
		if errors.As(err, &anomaly) {
			resp.Error = anomalyMessage
		}
	}
	return resp
}

func (s *Server) handleStartSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cfg, err := s.runConfig(req.Config)
	if err != nil {
		s.writeDomainError(w, "api.handleStartSimulation", err)
		return
	}

	h, err := s.runner.Start(s.baseCtx, req.Input, cfg, nil)
	if err != nil {
		s.writeDomainError(w, "api.handleStartSimulation", err)
		return
	}
	s.logger.Info("simulation started",
		zap.String("op", "api.handleStartSimulation"),
		zap.String("run_id", h.ID),
		zap.Int("runs", cfg.SimulationRuns))

	w.Header().Set("Location", fmt.Sprintf("/api/v1/simulations/%s", h.ID))
	writeJSON(w, http.StatusAccepted, runStatusResponse{ID: h.ID, Status: calculation.StatusRunning})
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h, ok := s.runner.Get(id)
	if !ok {
		s.writeDomainError(w, "api.handleGetSimulation", fmt.Errorf("%w: %s", calculation.ErrRunNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, statusOf(h))
}

// handleCancelSimulation cancels a running simulation and waits briefly for
// its partial result. A finished run is removed from the registry instead.
func (s *Server) handleCancelSimulation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h, ok := s.runner.Get(id)
	if !ok {
		s.writeDomainError(w, "api.handleCancelSimulation", fmt.Errorf("%w: %s", calculation.ErrRunNotFound, id))
		return
	}

	select {
	case <-h.Done():
		s.runner.Forget(id)
		w.WriteHeader(http.StatusNoContent)
		return
	default:
	}

	h.Cancel()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
	case <-r.Context().Done():
	}
	writeJSON(w, http.StatusAccepted, statusOf(h))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.monitor.Summary())
}
