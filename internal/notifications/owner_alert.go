package notifications

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/detailpro/detailpro-backend/pkg/mailer"
)

// OwnerAlert tells a shop owner that a customer answered a quote.
type OwnerAlert struct {
	Recipient    string
	BusinessName string
	CustomerName string
	Outcome      string // "accepted" or "declined"
	Total        string
	QuoteURL     string
}

func (a OwnerAlert) Customer() string {
	if name := strings.TrimSpace(a.CustomerName); name != "" {
		return name
	}
	return "A customer"
}

func (a OwnerAlert) Subject() string {
	return fmt.Sprintf("%s %s your %s quote", a.Customer(), a.Outcome, a.Total)
}

// RenderOwnerAlert builds the HTML and plain-text alert for a.
func RenderOwnerAlert(a OwnerAlert) (mailer.Message, error) {
	var html, text bytes.Buffer
	if err := ownerAlertHTML.Execute(&html, a); err != nil {
		return mailer.Message{}, fmt.Errorf("render owner alert html: %w", err)
	}
	if err := ownerAlertText.Execute(&text, a); err != nil {
		return mailer.Message{}, fmt.Errorf("render owner alert text: %w", err)
	}
	return mailer.Message{
		To:      a.Recipient,
		Subject: a.Subject(),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
