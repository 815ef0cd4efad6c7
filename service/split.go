package service

import (
	"fmt"

	"bookie/models"
)

// resolveSplitAmounts turns a placement request into the exact per-outcome
// stakes. The returned slice lines up with req.OutcomeIDs, every amount is
// positive, and the amounts always sum to req.TotalAmount.
func resolveSplitAmounts(req *models.BetRequest) ([]int64, error) {
	n := len(req.OutcomeIDs)

	switch req.Strategy {
	case models.SplitEven:
		if len(req.CustomAmounts) > 0 {
			return nil, fmt.Errorf("custom amounts are only valid with the %s strategy", models.SplitCustom)
		}
		if req.TotalAmount < int64(n) {
			return nil, fmt.Errorf("%d cents cannot cover %d selections", req.TotalAmount, n)
		}
		return splitEven(req.TotalAmount, n), nil

	case models.SplitCustom:
		if len(req.CustomAmounts) != n {
			return nil, fmt.Errorf("%w: %d amounts for %d selections", models.ErrSplitMismatch, len(req.CustomAmounts), n)
		}
		var sum int64
		for _, amount := range req.CustomAmounts {
			if amount <= 0 {
				return nil, fmt.Errorf("%w: every amount must be positive", models.ErrSplitMismatch)
			}
			sum += amount
		}
		if sum != req.TotalAmount {
			return nil, fmt.Errorf("%w: amounts sum to %d, total is %d", models.ErrSplitMismatch, sum, req.TotalAmount)
		}
		amounts := make([]int64, n)
		copy(amounts, req.CustomAmounts)
		return amounts, nil

	default:
		return nil, fmt.Errorf("unknown split strategy %q", req.Strategy)
	}
}

// splitEven divides total across n selections. The division remainder goes
// to the first selection, so 100 across 3 yields [34, 33, 33].
func splitEven(total int64, n int) []int64 {
	base := total / int64(n)
	remainder := total % int64(n)

	amounts := make([]int64, n)
	for i := range amounts {
		amounts[i] = base
	}
	amounts[0] += remainder

	return amounts
}
