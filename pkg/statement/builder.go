package statement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Builder renders statement documents with localized currency formatting.
type Builder struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewBuilder creates a builder for the given ISO currency code.
func NewBuilder(currencyCode string) (*Builder, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, err
	}
	return &Builder{
		unit:    unit,
		printer: message.NewPrinter(language.English),
	}, nil
}

// Build renders the daily summaries into the statement document.
func (b *Builder) Build(merchantID uuid.UUID, summaries []DailySummary) string {
	var (
		sb                strings.Builder
		totalTransactions int
		transactionValue  decimal.Decimal
		feeValue          decimal.Decimal
		depositsValue     decimal.Decimal
		withdrawalsValue  decimal.Decimal
	)

	sb.WriteString(b.printer.Sprintf("Merchant Statement\n"))
	sb.WriteString(b.printer.Sprintf("Merchant: %s\n\n", merchantID))

	for _, summary := range summaries {
		totalTransactions += summary.TransactionCount
		transactionValue = transactionValue.Add(summary.TransactionValue)
		feeValue = feeValue.Add(summary.FeeValue)
		depositsValue = depositsValue.Add(summary.DepositsValue)
		withdrawalsValue = withdrawalsValue.Add(summary.WithdrawalsValue)

		sb.WriteString(b.printer.Sprintf("%s  transactions: %d (%v)  fees: %d (%v)  deposits: %v  withdrawals: %v\n",
			summary.ActivityDate.Format("2006-01-02"),
			summary.TransactionCount, b.amount(summary.TransactionValue),
			summary.FeeCount, b.amount(summary.FeeValue),
			b.amount(summary.DepositsValue),
			b.amount(summary.WithdrawalsValue)))
	}

	sb.WriteString(b.printer.Sprintf("\nTotals\n"))
	sb.WriteString(b.printer.Sprintf("Transactions: %d (%v)\n", totalTransactions, b.amount(transactionValue)))
	sb.WriteString(b.printer.Sprintf("Fees:         %v\n", b.amount(feeValue)))
	sb.WriteString(b.printer.Sprintf("Deposits:     %v\n", b.amount(depositsValue)))
	sb.WriteString(b.printer.Sprintf("Withdrawals:  %v\n", b.amount(withdrawalsValue)))

	return sb.String()
}

// BuildForDate renders a single day's lines, newest last.
func (b *Builder) BuildForDate(merchantID uuid.UUID, activityDate time.Time, lines []Line) string {
	var sb strings.Builder
	sb.WriteString(b.printer.Sprintf("Merchant Statement for %s\n", activityDate.Format("2006-01-02")))
	sb.WriteString(b.printer.Sprintf("Merchant: %s\n\n", merchantID))
	for _, line := range lines {
		sb.WriteString(b.printer.Sprintf("%s  %-11s  %v\n",
			line.LineDateTime.Format("15:04:05"), line.LineType, b.amount(line.Amount)))
	}
	return sb.String()
}

// amount pairs the value with the statement currency. The decimal is rendered
// from its string form so no precision is lost to a float conversion.
func (b *Builder) amount(value decimal.Decimal) currency.Amount {
	return b.unit.Amount(value.StringFixed(2))
}
