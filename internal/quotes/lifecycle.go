package quotes

import (
	"fmt"
	"time"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
)

// Quote lifecycle:
//
//	DRAFT --send--> SENT --open--> VIEWED --accept/decline--> ACCEPTED | DECLINED
//	any non-terminal --open/respond past validUntil--> EXPIRED
//	DRAFT --mark--> SENT | VIEWED | ACCEPTED | DECLINED
//
// ACCEPTED, DECLINED and EXPIRED are terminal. Expiry is evaluated lazily.

type statusDetails struct {
	Status enums.QuoteStatus `json:"status"`
}

func alreadyFinalized(status enums.QuoteStatus) error {
	return pkgerrors.New(pkgerrors.CodeAlreadyFinalized, fmt.Sprintf("quote is already %s", status)).
		WithDetails(statusDetails{Status: status})
}

func quoteExpired() error {
	return pkgerrors.New(pkgerrors.CodeQuoteExpired, "quote has expired")
}

func stateConflict(message string, status enums.QuoteStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, message).WithDetails(statusDetails{Status: status})
}

// sendTarget returns the status a quote holds after a send. A re-send of a
// SENT or VIEWED quote leaves the status where it is.
func sendTarget(from enums.QuoteStatus) (enums.QuoteStatus, error) {
	switch from {
	case enums.QuoteStatusDraft:
		return enums.QuoteStatusSent, nil
	case enums.QuoteStatusSent, enums.QuoteStatusViewed:
		return from, nil
	case enums.QuoteStatusAccepted, enums.QuoteStatusDeclined, enums.QuoteStatusExpired:
		return "", alreadyFinalized(from)
	default:
		return "", stateConflict("quote cannot be sent from its current state", from)
	}
}

// viewTarget returns the status a quote moves to when its public link is
// opened at now. Expiry wins over the SENT to VIEWED move.
func viewTarget(q *models.Quote, now time.Time) enums.QuoteStatus {
	if !q.Status.IsTerminal() && q.IsExpiredAt(now) {
		return enums.QuoteStatusExpired
	}
	if q.Status == enums.QuoteStatusSent {
		return enums.QuoteStatusViewed
	}
	return q.Status
}

// respondTarget decides the outcome of a customer accept or decline. When
// expire is true the caller must persist EXPIRED and then report err.
func respondTarget(q *models.Quote, now time.Time, action enums.QuoteAction) (to enums.QuoteStatus, expire bool, err error) {
	switch {
	case q.Status == enums.QuoteStatusExpired:
		return "", false, quoteExpired()
	case q.Status.IsTerminal():
		return "", false, alreadyFinalized(q.Status)
	case q.IsExpiredAt(now):
		return enums.QuoteStatusExpired, true, quoteExpired()
	case q.Status == enums.QuoteStatusDraft:
		return "", false, stateConflict("quote has not been sent", q.Status)
	case q.Status == enums.QuoteStatusSent, q.Status == enums.QuoteStatusViewed:
		return action.TargetStatus(), false, nil
	default:
		return "", false, stateConflict("quote cannot be answered from its current state", q.Status)
	}
}

var markableStatuses = map[enums.QuoteStatus]bool{
	enums.QuoteStatusSent:     true,
	enums.QuoteStatusViewed:   true,
	enums.QuoteStatusAccepted: true,
	enums.QuoteStatusDeclined: true,
}

// checkMark validates a manual status change. Only DRAFT quotes may be marked.
func checkMark(from, to enums.QuoteStatus) error {
	if !markableStatuses[to] {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("status %q cannot be set manually", to))
	}
	switch {
	case from.IsTerminal():
		return alreadyFinalized(from)
	case from != enums.QuoteStatusDraft:
		return stateConflict("only draft quotes can be marked", from)
	}
	return nil
}

// checkEditable rejects edits to finalized quotes.
func checkEditable(status enums.QuoteStatus) error {
	if status.IsTerminal() {
		return alreadyFinalized(status)
	}
	return nil
}
