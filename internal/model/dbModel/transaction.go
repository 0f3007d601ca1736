package dbModel

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID       string          `db:"id"`
	Date     time.Time       `db:"date"`
	Type     string          `db:"type"`
	Category sql.NullString  `db:"category"`
	Asset    string          `db:"asset"`
	Quantity decimal.Decimal `db:"quantity"`
	Price    decimal.Decimal `db:"price"`
	Currency string          `db:"currency"`
	Status   string          `db:"status"`
	Note     string          `db:"note"`
}

type Liability struct {
	ID           string          `db:"id"`
	Date         time.Time       `db:"date"`
	Type         string          `db:"type"`
	Category     string          `db:"category"`
	Name         string          `db:"name"`
	Amount       decimal.Decimal `db:"amount"`
	InterestRate decimal.Decimal `db:"interest_rate"`
	Status       string          `db:"status"`
	Note         string          `db:"note"`
}
