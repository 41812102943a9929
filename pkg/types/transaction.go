package types

import (
	"strconv"
	"strings"
)

// Transaction kinds.
const (
	KindExpense = "Expense"
	KindIncome  = "Income"
)

// Transaction is one row of the finance collection. Amount is coerced on
// load and never persisted in coerced form.
type Transaction struct {
	Handle    Handle
	Timestamp string
	Item      string
	Category  string
	Amount    float64
	Kind      string
}

// TransactionFromRow hydrates a loaded row into a Transaction. An amount
// cell that does not parse as a number coerces to 0.
func TransactionFromRow(r Row) Transaction {
	amount, err := strconv.ParseFloat(r.Cell("amount"), 64)
	if err != nil {
		amount = 0
	}
	return Transaction{
		Handle:    r.Handle,
		Timestamp: r.Cell("timestamp"),
		Item:      r.Cell("item"),
		Category:  r.Cell("category"),
		Amount:    amount,
		Kind:      r.Cell("kind"),
	}
}

// Collection returns the finance collection name.
func (t Transaction) Collection() string { return FinanceCollection }

// Values returns the transaction's cells in append order.
func (t Transaction) Values() []string {
	return []string{
		t.Timestamp,
		t.Item,
		t.Category,
		strconv.FormatFloat(t.Amount, 'f', -1, 64),
		t.Kind,
	}
}

// ValidKind reports whether the value is a recognized transaction kind.
func ValidKind(kind string) bool {
	return kind == KindExpense || kind == KindIncome
}

// NormalizeKind maps a kind cell to its canonical form, matching
// case-insensitively. ok is false for unrecognized values, which are
// returned unchanged.
func NormalizeKind(kind string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "expense":
		return KindExpense, true
	case "income":
		return KindIncome, true
	}
	return kind, false
}
