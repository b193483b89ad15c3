package postgres

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timeToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

// Balances are stored as a jsonb object keyed by member id.
func balancesToJSON(balances map[int64]decimal.Decimal) ([]byte, error) {
	return json.Marshal(balances)
}

func balancesFromJSON(data []byte) (map[int64]decimal.Decimal, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var balances map[int64]decimal.Decimal
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, err
	}

	return balances, nil
}
