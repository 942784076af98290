package ledger

import (
	"github.com/mvargascr/fondo-server/internal/models"
)

// BalanceReport holds the result of replaying one account's movement list:
// aggregate totals per currency and the running balance recorded immediately
// after each movement was applied.
type BalanceReport struct {
	Totals  map[models.Currency]models.CurrencyTotals
	AfterBy map[string]int64 // movement id -> balance after
}

// ComputeBalances replays movements chronologically, one independent pass per
// currency, starting from the configured opening balances. The input list is
// newest-first (storage order); the replay reverses it. The result is a pure
// function of (opening, movements) — replaying again yields the same report.
func ComputeBalances(movements []models.Movement, opening map[models.Currency]int64) BalanceReport {
	report := BalanceReport{
		Totals:  make(map[models.Currency]models.CurrencyTotals, len(models.Currencies)),
		AfterBy: make(map[string]int64, len(movements)),
	}
	for _, currency := range models.Currencies {
		running := opening[currency]
		totals := models.CurrencyTotals{Opening: running}
		for i := len(movements) - 1; i >= 0; i-- {
			m := movements[i]
			if m.Currency != currency {
				continue
			}
			running += m.AmountInflow - m.AmountOutflow
			totals.Inflow += m.AmountInflow
			totals.Outflow += m.AmountOutflow
			report.AfterBy[m.ID] = running
		}
		totals.Final = running
		report.Totals[currency] = totals
	}
	return report
}

// BalanceBefore derives the running balance just before a movement was
// applied. It is never stored; display code computes it from the report.
func BalanceBefore(report BalanceReport, m models.Movement) int64 {
	return report.AfterBy[m.ID] - m.AmountInflow + m.AmountOutflow
}
