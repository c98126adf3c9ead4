// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/google/uuid"

	"mcp-max-protein/internal/models"
	"mcp-max-protein/internal/optimizer"
)

// ErrInvalidArguments marks tool calls whose arguments cannot be used.
var ErrInvalidArguments = errors.New("invalid parameters")

const (
	toolFilterFoods       = "filter_foods"
	toolGreedyMaxProtein  = "greedy_max_protein"
	toolExhaustiveProtein = "exhaustive_max_protein"
	toolCompareStrategies = "compare_strategies"
)

type FilterParams struct {
	MinKcal  *int `json:"min_kcal,omitempty" description:"Exclusive lower kcal bound (default 0)"`
	MaxKcal  *int `json:"max_kcal,omitempty" description:"Exclusive upper kcal bound"`
	MaxCount *int `json:"max_count,omitempty" description:"Maximum number of candidate foods"`
}

type SolveParams struct {
	BudgetKcal *int `json:"budget_kcal,omitempty" description:"Maximum total kilocalories of the selection"`
	FilterParams
}

type FilterResponse struct {
	Count      int            `json:"count"`
	Candidates models.Catalog `json:"candidates"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	// Convert the Arguments map to JSON bytes, then unmarshal to target
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", ErrInvalidArguments, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	return nil
}

// candidates applies the request's filter over the loaded catalog, falling
// back to the configured defaults.
func (s *MaxProteinServer) candidates(p FilterParams) (models.Catalog, int, error) {
	minKcal, maxKcal, maxCount := s.config.MinKcal, s.config.MaxKcal, s.config.MaxCount
	if p.MinKcal != nil {
		minKcal = *p.MinKcal
	}
	if p.MaxKcal != nil {
		maxKcal = *p.MaxKcal
	}
	if p.MaxCount != nil {
		maxCount = *p.MaxCount
	}
	if maxCount < 0 {
		return nil, 0, fmt.Errorf("%w: max_count must not be negative", ErrInvalidArguments)
	}

	return optimizer.Filter(s.catalog, minKcal, maxKcal, maxCount), maxCount, nil
}

func (s *MaxProteinServer) budget(p SolveParams) int {
	if p.BudgetKcal != nil {
		return *p.BudgetKcal
	}
	return s.config.BudgetKcal
}

// handleFilterFoods returns the candidate set without optimizing it
func (s *MaxProteinServer) handleFilterFoods(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params FilterParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	cands, _, err := s.candidates(params)
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(FilterResponse{Count: len(cands), Candidates: cands})
}

func (s *MaxProteinServer) handleGreedy(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.handleSolve(ctx, req, optimizer.Greedy)
}

func (s *MaxProteinServer) handleExhaustive(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.handleSolve(ctx, req, optimizer.Exhaustive)
}

func (s *MaxProteinServer) handleSolve(_ context.Context, req *protocol.CallToolRequest, alg optimizer.Algorithm) (*protocol.CallToolResult, error) {
	var params SolveParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	cands, maxCount, err := s.candidates(params.FilterParams)
	if err != nil {
		return nil, err
	}
	if alg == optimizer.Exhaustive {
		if err := s.checkExhaustiveCount(maxCount); err != nil {
			return nil, err
		}
	}

	result, err := s.solve(alg, cands, s.budget(params))
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(result)
}

// handleCompareStrategies runs both selectors over the same candidates
func (s *MaxProteinServer) handleCompareStrategies(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SolveParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	cands, maxCount, err := s.candidates(params.FilterParams)
	if err != nil {
		return nil, err
	}
	if err := s.checkExhaustiveCount(maxCount); err != nil {
		return nil, err
	}

	budget := s.budget(params)
	greedy, err := s.solve(optimizer.Greedy, cands, budget)
	if err != nil {
		return nil, err
	}
	best, err := s.solve(optimizer.Exhaustive, cands, budget)
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(models.Comparison{
		Greedy:     greedy,
		Exhaustive: best,
		ProteinGap: best.Totals.ProteinGrams - greedy.Totals.ProteinGrams,
	})
}

func (s *MaxProteinServer) checkExhaustiveCount(maxCount int) error {
	limit := min(s.config.ExhaustiveMaxCount, optimizer.MaxExhaustiveCandidates-1)
	if maxCount > limit {
		return fmt.Errorf("%w: max_count %d exceeds exhaustive limit %d", ErrInvalidArguments, maxCount, limit)
	}
	return nil
}

// solve runs one selector and records its metrics.
func (s *MaxProteinServer) solve(alg optimizer.Algorithm, cands models.Catalog, budgetKcal int) (*models.Result, error) {
	res, err := optimizer.Solve(alg, cands, budgetKcal)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s selector: %w", alg, err)
	}
	res.RunID = uuid.NewString()

	selectorDuration.WithLabelValues(string(alg)).Observe(res.Elapsed.Seconds())
	selectionProtein.WithLabelValues(string(alg)).Set(float64(res.Totals.ProteinGrams))

	s.logger.Info("selection complete",
		"run_id", res.RunID,
		"algorithm", alg,
		"candidates", res.CandidateCount,
		"budget_kcal", budgetKcal,
		"items", len(res.Selection),
		"energy_kcal", res.Totals.EnergyKcal,
		"protein_grams", res.Totals.ProteinGrams,
		"elapsed", res.Elapsed)
	return res, nil
}

// registerTools wires tool names to their handlers
func (s *MaxProteinServer) registerTools() {
	s.tools = map[string]toolHandler{
		toolFilterFoods:       s.handleFilterFoods,
		toolGreedyMaxProtein:  s.handleGreedy,
		toolExhaustiveProtein: s.handleExhaustive,
		toolCompareStrategies: s.handleCompareStrategies,
	}

	for name := range s.tools {
		s.logger.Debug("registered tool", "tool", name)
	}
}
