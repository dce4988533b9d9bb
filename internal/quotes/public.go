package quotes

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/detailpro/detailpro-backend/pkg/db/models"
	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
)

func notFoundShare() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
}

// OpenPublic counts a view and applies the lazy SENT to VIEWED and expiry
// moves before returning the customer view.
func (s *service) OpenPublic(ctx context.Context, shareID string) (*PublicQuoteDTO, error) {
	shareID = strings.ToLower(strings.TrimSpace(shareID))
	if !validShareID(shareID) {
		return nil, notFoundShare()
	}

	var (
		quote *models.Quote
		from  enums.QuoteStatus
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByShareID(ctx, shareID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundShare()
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
		}
		if err := repo.IncrementViewCount(ctx, current.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count quote view")
		}
		current.ViewCount++
		from = current.Status

		to := viewTarget(current, s.now())
		if to != from {
			ok, err := repo.TransitionStatus(ctx, current.ID, from, to, nil)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote status")
			}
			if ok {
				current.Status = to
				eventType, _ := enums.QuoteEventForStatus(to)
				if err := s.emitStatusChange(ctx, tx, nil, current, from, eventType, nil); err != nil {
					return err
				}
			}
		}

		quote, err = repo.FindByID(ctx, current.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload quote")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncView()
	if quote.Status != from {
		s.metrics.IncTransition(from.String(), quote.Status.String())
	}

	business, err := s.businessByID(ctx, quote.BusinessID)
	if err != nil {
		return nil, err
	}
	return toPublicDTO(quote, business, s.cfg.DefaultBusinessName), nil
}

// Respond records a customer's accept or decline. A quote found past its
// validUntil is flipped to EXPIRED and committed before QUOTE_EXPIRED is
// reported.
func (s *service) Respond(ctx context.Context, shareID string, action enums.QuoteAction) (*RespondResult, error) {
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be accept or decline")
	}
	shareID = strings.ToLower(strings.TrimSpace(shareID))
	if !validShareID(shareID) {
		return nil, notFoundShare()
	}

	var (
		result  *RespondResult
		from    enums.QuoteStatus
		outcome error
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for round := 0; round < maxTransitionRounds; round++ {
			current, err := repo.FindByShareID(ctx, shareID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFoundShare()
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
			}
			to, expire, decideErr := respondTarget(current, s.now(), action)
			if decideErr != nil && !expire {
				return decideErr
			}
			ok, err := repo.TransitionStatus(ctx, current.ID, current.Status, to, nil)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote status")
			}
			if !ok {
				continue
			}
			from = current.Status
			current.Status = to
			eventType, _ := enums.QuoteEventForStatus(to)
			if err := s.emitStatusChange(ctx, tx, nil, current, from, eventType, nil); err != nil {
				return err
			}
			result = &RespondResult{ShareID: current.ShareID, Status: to}
			// The expiry flip must commit, so the error travels outside the tx.
			outcome = decideErr
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "quote changed concurrently, retry")
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(from.String(), result.Status.String())
	if outcome != nil {
		return nil, outcome
	}
	s.logg.Info(s.logg.WithField(ctx, "share_id", shareID), "quote "+strings.ToLower(result.Status.String()))
	return result, nil
}
