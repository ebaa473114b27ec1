package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// ScheduledTransaction is a future financial transaction (a bill, a
// transfer, an expected payment) the user wants to be reminded about.
type ScheduledTransaction struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"userId"`
	Description  string           `json:"description"`
	AmountMinor  int64            `json:"amountMinor"` // Amount in minor units (cents, kobo)
	Currency     string           `json:"currency"`
	Type         TransactionType  `json:"type"`
	ScheduledFor time.Time        `json:"scheduledFor"`
	Status       ItemStatus       `json:"status"`
	Reminders    ReminderSettings `json:"reminders"`
}

func (t *ScheduledTransaction) Key() ItemKey {
	return ItemKey{Kind: ItemKindScheduledTransaction, ID: t.ID}
}

func (t *ScheduledTransaction) OwnerID() uuid.UUID         { return t.UserID }
func (t *ScheduledTransaction) DueAt() time.Time           { return t.ScheduledFor }
func (t *ScheduledTransaction) State() ItemStatus          { return t.Status }
func (t *ScheduledTransaction) Reminder() ReminderSettings { return t.Reminders }

// Notification builds the reminder for this transaction.
func (t *ScheduledTransaction) Notification(offset int) Notification {
	description := t.Description
	if description == "" {
		description = "Scheduled transaction"
	}

	amount := FormatAmount(t.AmountMinor, t.Currency)
	verb := "is due"
	if t.Type == TransactionTypeIncome {
		verb = "is expected"
	}

	meta := baseMetadata(t.Key(), offset, t.ScheduledFor)
	meta["amount"] = amount
	meta["transaction_type"] = string(t.Type)

	return Notification{
		Item:     t.Key(),
		Offset:   offset,
		Title:    "Upcoming: " + description,
		Body:     fmt.Sprintf("%s %s in %s (%s).", amount, verb, formatLeadTime(offset), formatDueTime(t.ScheduledFor)),
		DueAt:    t.ScheduledFor,
		Metadata: meta,
	}
}

// FormatAmount renders a minor-unit amount with its ISO currency code and
// English digit grouping, e.g. "NGN 12,500.00".
func FormatAmount(amountMinor int64, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	p := message.NewPrinter(language.English)
	return strings.TrimSpace(p.Sprintf("%s %.2f", code, float64(amountMinor)/100))
}

var _ Reminderable = (*ScheduledTransaction)(nil)
