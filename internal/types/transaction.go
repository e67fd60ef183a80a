package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// TransactionType identifies the direction of an account cash flow.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

// AccountTransaction is a deposit into or withdrawal from the trading
// account. Transactions are independent of positions and only affect
// account-value reconciliation.
type AccountTransaction struct {
	// Type is DEPOSIT or WITHDRAWAL.
	Type TransactionType `yaml:"type" json:"type"`
	// Amount is the positive dollar amount moved.
	Amount float64 `yaml:"amount" json:"amount"`
	// TransactionDate is when the cash flow settled.
	TransactionDate time.Time `yaml:"transaction_date" json:"transaction_date"`
	// Description optionally annotates the transaction.
	Description optional.Option[string] `yaml:"description" json:"description"`
}

// SignedAmount returns the amount with deposits positive and withdrawals
// negative, the convention used on the equity timeline.
func (t *AccountTransaction) SignedAmount() float64 {
	if t.Type == TransactionTypeWithdrawal {
		return -t.Amount
	}

	return t.Amount
}

// TransactionSummary aggregates the cash flows supplied for one computation.
type TransactionSummary struct {
	// TotalDeposits is the sum of all deposit amounts.
	TotalDeposits float64 `yaml:"total_deposits" json:"total_deposits"`
	// TotalWithdrawals is the sum of all withdrawal amounts.
	TotalWithdrawals float64 `yaml:"total_withdrawals" json:"total_withdrawals"`
	// NetFlow is deposits minus withdrawals.
	NetFlow float64 `yaml:"net_flow" json:"net_flow"`
}

// SummarizeTransactions totals deposits and withdrawals into a
// TransactionSummary.
func SummarizeTransactions(transactions []AccountTransaction) TransactionSummary {
	summary := TransactionSummary{
		TotalDeposits:    0,
		TotalWithdrawals: 0,
		NetFlow:          0,
	}

	for _, tx := range transactions {
		switch tx.Type {
		case TransactionTypeDeposit:
			summary.TotalDeposits += tx.Amount
		case TransactionTypeWithdrawal:
			summary.TotalWithdrawals += tx.Amount
		}
	}

	summary.NetFlow = summary.TotalDeposits - summary.TotalWithdrawals

	return summary
}
