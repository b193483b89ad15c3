package domain

import "github.com/shopspring/decimal"

// AggregateBalances folds a set of expense records into a net balance per
// member. For each expense the payer is credited the full amount and every
// member, the payer included, is debited their computed share. Positive
// means the member is owed money, negative means they owe.
//
// Addition over Money is commutative and associative, so the fold order
// never affects the result. Every current member appears in the returned
// map, if only with a zero balance. Money transfers need no special case:
// they are ordinary expenses with a percentage split assigning 0% to the
// payer.
func AggregateBalances(expenses []*Expense, members []Member) (map[int64]decimal.Decimal, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	ids := MemberIDs(members)

	balances := make(map[int64]decimal.Decimal, len(ids))
	for _, id := range ids {
		balances[id] = decimal.Zero
	}

	for _, e := range expenses {
		shares, err := e.Split.Compute(e.Amount, ids)
		if err != nil {
			return nil, err
		}

		balances[e.PayerID] = balances[e.PayerID].Add(e.Amount)
		for id, share := range shares {
			balances[id] = balances[id].Sub(share)
		}
	}

	return balances, nil
}
