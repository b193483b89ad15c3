package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SplitType identifies how an expense amount is divided among members.
type SplitType string

const (
	SplitTypeEqual      SplitType = "equal"
	SplitTypePercentage SplitType = "percentage"
)

// SplitStrategy is a tagged variant: Percentages is populated only when
// Type is SplitTypePercentage.
type SplitStrategy struct {
	Type        SplitType
	Percentages map[int64]decimal.Decimal
}

// EqualSplit returns an equal split strategy.
func EqualSplit() SplitStrategy {
	return SplitStrategy{Type: SplitTypeEqual}
}

// PercentageSplit returns a percentage split strategy.
func PercentageSplit(percentages map[int64]decimal.Decimal) SplitStrategy {
	return SplitStrategy{Type: SplitTypePercentage, Percentages: percentages}
}

// Validate checks the strategy against a member set. For percentage splits
// every member must have an entry and every entry must reference a member.
// The sum of percentages is deliberately not checked: shares are computed
// from the literal percentages given, even when they do not add up to 100.
func (s SplitStrategy) Validate(memberIDs []int64) error {
	switch s.Type {
	case SplitTypeEqual:
		return nil
	case SplitTypePercentage:
		known := make(map[int64]bool, len(memberIDs))
		for _, id := range memberIDs {
			known[id] = true
		}

		for id := range s.Percentages {
			if !known[id] {
				return fmt.Errorf("%w: member %d", ErrUnknownMember, id)
			}
		}

		for _, id := range memberIDs {
			if _, ok := s.Percentages[id]; !ok {
				return fmt.Errorf("%w: member %d", ErrMissingPercentage, id)
			}
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSplitType, s.Type)
	}
}

// Compute returns the per-member share of amount. Equal splits assign the
// rounding remainder to the lowest member id; percentage shares are rounded
// half-to-even individually.
func (s SplitStrategy) Compute(amount decimal.Decimal, memberIDs []int64) (map[int64]decimal.Decimal, error) {
	if len(memberIDs) == 0 {
		return nil, ErrNoMembers
	}

	if err := s.Validate(memberIDs); err != nil {
		return nil, err
	}

	ids := make([]int64, len(memberIDs))
	copy(ids, memberIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	shares := make(map[int64]decimal.Decimal, len(ids))

	switch s.Type {
	case SplitTypeEqual:
		parts := SplitEvenly(amount, len(ids))
		for i, id := range ids {
			shares[id] = parts[i]
		}
	case SplitTypePercentage:
		for _, id := range ids {
			shares[id] = PercentageShare(amount, s.Percentages[id])
		}
	}

	return shares, nil
}
