package service

import (
	"errors"
	"testing"

	"bookie/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEven(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		n        int
		expected []int64
	}{
		{
			name:     "remainder goes to first selection",
			total:    100,
			n:        3,
			expected: []int64{34, 33, 33},
		},
		{
			name:     "exact division",
			total:    90,
			n:        3,
			expected: []int64{30, 30, 30},
		},
		{
			name:     "single selection takes everything",
			total:    250,
			n:        1,
			expected: []int64{250},
		},
		{
			name:     "two selections odd total",
			total:    101,
			n:        2,
			expected: []int64{51, 50},
		},
		{
			name:     "one cent each",
			total:    3,
			n:        3,
			expected: []int64{1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := splitEven(tt.total, tt.n)
			assert.Equal(t, tt.expected, amounts)

			var sum int64
			for _, amount := range amounts {
				sum += amount
			}
			assert.Equal(t, tt.total, sum, "split must preserve the total")
		})
	}
}

func TestResolveSplitAmounts_Even(t *testing.T) {
	req := &models.BetRequest{
		UserID:      123456,
		MarketKey:   "f1-outright-2026",
		OutcomeIDs:  []int64{1, 2, 3},
		TotalAmount: 100,
		Strategy:    models.SplitEven,
	}

	amounts, err := resolveSplitAmounts(req)
	require.NoError(t, err)
	assert.Equal(t, []int64{34, 33, 33}, amounts)
}

func TestResolveSplitAmounts_EvenTooSmall(t *testing.T) {
	req := &models.BetRequest{
		OutcomeIDs:  []int64{1, 2, 3},
		TotalAmount: 2,
		Strategy:    models.SplitEven,
	}

	_, err := resolveSplitAmounts(req)
	assert.Error(t, err)
}

func TestResolveSplitAmounts_EvenRejectsCustomAmounts(t *testing.T) {
	req := &models.BetRequest{
		OutcomeIDs:    []int64{1, 2},
		TotalAmount:   100,
		Strategy:      models.SplitEven,
		CustomAmounts: []int64{50, 50},
	}

	_, err := resolveSplitAmounts(req)
	assert.Error(t, err)
}

func TestResolveSplitAmounts_Custom(t *testing.T) {
	req := &models.BetRequest{
		OutcomeIDs:    []int64{1, 2, 3},
		TotalAmount:   100,
		Strategy:      models.SplitCustom,
		CustomAmounts: []int64{70, 20, 10},
	}

	amounts, err := resolveSplitAmounts(req)
	require.NoError(t, err)
	assert.Equal(t, []int64{70, 20, 10}, amounts)
}

func TestResolveSplitAmounts_CustomSumMismatch(t *testing.T) {
	req := &models.BetRequest{
		OutcomeIDs:    []int64{1, 2},
		TotalAmount:   100,
		Strategy:      models.SplitCustom,
		CustomAmounts: []int64{60, 50},
	}

	_, err := resolveSplitAmounts(req)
	assert.True(t, errors.Is(err, models.ErrSplitMismatch))
}

func TestResolveSplitAmounts_CustomLengthMismatch(t *testing.T) {
	req := &models.BetRequest{
		OutcomeIDs:    []int64{1, 2, 3},
		TotalAmount:   100,
		Strategy:      models.SplitCustom,
		CustomAmounts: []int64{50, 50},
	}

	_, err := resolveSplitAmounts(req)
	assert.True(t, errors.Is(err, models.ErrSplitMismatch))
}

func TestResolveSplitAmounts_CustomNonPositiveAmount(t *testing.T) {
	req := &models.BetRequest{
		OutcomeIDs:    []int64{1, 2, 3},
		TotalAmount:   100,
		Strategy:      models.SplitCustom,
		CustomAmounts: []int64{101, 0, -1},
	}

	_, err := resolveSplitAmounts(req)
	assert.True(t, errors.Is(err, models.ErrSplitMismatch))
}

func TestResolveSplitAmounts_UnknownStrategy(t *testing.T) {
	req := &models.BetRequest{
		OutcomeIDs:  []int64{1},
		TotalAmount: 100,
		Strategy:    models.SplitStrategy("martingale"),
	}

	_, err := resolveSplitAmounts(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown split strategy")
}
