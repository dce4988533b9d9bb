package enums

import "fmt"

// QuoteAction is the customer's answer to a sent quote.
type QuoteAction string

const (
	QuoteActionAccept  QuoteAction = "accept"
	QuoteActionDecline QuoteAction = "decline"
)

// ParseQuoteAction converts raw input into a QuoteAction.
func ParseQuoteAction(value string) (QuoteAction, error) {
	switch QuoteAction(value) {
	case QuoteActionAccept, QuoteActionDecline:
		return QuoteAction(value), nil
	}
	return "", fmt.Errorf("invalid quote action %q", value)
}

// TargetStatus is the status the quote moves to when the action succeeds.
func (a QuoteAction) TargetStatus() QuoteStatus {
	if a == QuoteActionAccept {
		return QuoteStatusAccepted
	}
	return QuoteStatusDeclined
}

func (a QuoteAction) IsValid() bool {
	return a == QuoteActionAccept || a == QuoteActionDecline
}
