// Package notifications renders and delivers quote emails to customers and
// response alerts to shop owners.
package notifications

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/mailer"
)

const validUntilLayout = "January 2, 2006"

// QuoteNotification is everything a quote email needs. It carries display
// strings only; callers format money and dates before dispatching.
type QuoteNotification struct {
	Recipient         string
	ReplyTo           string
	BusinessName      string
	CustomerName      string
	VehicleInfo       string
	Total             string
	PublicQuoteURL    string
	ValidUntilDisplay string
}

// Greeting is the salutation name, falling back to "there".
func (n QuoteNotification) Greeting() string {
	if name := strings.TrimSpace(n.CustomerName); name != "" {
		return name
	}
	return "there"
}

// Subject is the email subject line.
func (n QuoteNotification) Subject() string {
	return "Your Quote from " + n.BusinessName
}

// Dispatcher delivers a quote notification. Implementations do not retry.
type Dispatcher interface {
	DispatchQuote(ctx context.Context, n QuoteNotification) error
}

// EmailDispatcher renders the notification and hands it to a mailer.
type EmailDispatcher struct {
	mailer mailer.Mailer
	logg   *logger.Logger
}

func NewEmailDispatcher(m mailer.Mailer, logg *logger.Logger) (*EmailDispatcher, error) {
	if m == nil {
		return nil, fmt.Errorf("mailer required")
	}
	return &EmailDispatcher{mailer: m, logg: logg}, nil
}

func (d *EmailDispatcher) DispatchQuote(ctx context.Context, n QuoteNotification) error {
	msg, err := RenderQuote(n)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		if d.logg != nil {
			d.logg.Error(d.logg.WithField(ctx, "recipient", n.Recipient), "quote email dispatch failed", err)
		}
		return fmt.Errorf("send quote email: %w", err)
	}
	return nil
}

// RenderQuote builds the HTML and plain-text email for n.
func RenderQuote(n QuoteNotification) (mailer.Message, error) {
	var html, text bytes.Buffer
	if err := quoteHTML.Execute(&html, n); err != nil {
		return mailer.Message{}, fmt.Errorf("render quote html: %w", err)
	}
	if err := quoteText.Execute(&text, n); err != nil {
		return mailer.Message{}, fmt.Errorf("render quote text: %w", err)
	}
	return mailer.Message{
		To:      n.Recipient,
		ReplyTo: n.ReplyTo,
		Subject: n.Subject(),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// FormatTotal renders a whole-unit amount as "$N".
func FormatTotal(total decimal.Decimal) string {
	return "$" + total.Round(0).StringFixed(0)
}

// FormatValidUntil renders an expiry date as "January 2, 2006", or "" when unset.
func FormatValidUntil(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(validUntilLayout)
}

// VehicleInfo joins the free-text year, make and model, falling back to the
// size label when none were given.
func VehicleInfo(year, vehicleMake, model *string, sizeLabel string) string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{year, vehicleMake, model} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return sizeLabel
	}
	return strings.Join(parts, " ")
}
