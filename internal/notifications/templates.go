package notifications

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

var quoteHTML = htmltemplate.Must(htmltemplate.New("quote_html").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Your Quote from {{.BusinessName}}</title>
</head>
<body style="margin:0;padding:0;background-color:#0a0a0a;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#0a0a0a;">
    <tr>
      <td align="center" style="padding:40px 20px;">
        <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="max-width:520px;">
          <tr>
            <td align="center" style="padding-bottom:32px;">
              <span style="font-size:28px;font-weight:700;color:#c9a66b;">{{.BusinessName}}</span>
            </td>
          </tr>
          <tr>
            <td style="background:#1a1a1a;border-radius:20px;border:1px solid rgba(201,166,107,0.15);padding:40px 32px;">
              <p style="margin:0 0 24px 0;color:#f5f0e8;font-size:18px;">Hi {{.Greeting}},</p>
              <p style="margin:0 0 32px 0;color:rgba(245,240,232,0.7);font-size:15px;">
                Thank you for your interest! Here's your personalized detailing quote for your vehicle.
              </p>
              <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background:rgba(201,166,107,0.08);border-radius:12px;margin-bottom:32px;">
                <tr>
                  <td style="padding:24px;">
                    <p style="margin:0 0 8px 0;color:rgba(245,240,232,0.5);font-size:12px;text-transform:uppercase;">Vehicle</p>
                    <p style="margin:0 0 20px 0;color:#f5f0e8;font-size:16px;">{{.VehicleInfo}}</p>
                    <p style="margin:0 0 8px 0;color:rgba(245,240,232,0.5);font-size:12px;text-transform:uppercase;">Quote Total</p>
                    <p style="margin:0;color:#c9a66b;font-size:36px;font-weight:700;">{{.Total}}</p>
                  </td>
                </tr>
              </table>
              <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
                <tr>
                  <td align="center">
                    <a href="{{.PublicQuoteURL}}" style="display:inline-block;background:#c9a66b;color:#0a0a0a;font-size:15px;font-weight:600;text-decoration:none;padding:16px 40px;border-radius:12px;">View Full Quote</a>
                  </td>
                </tr>
              </table>
              {{- if .ValidUntilDisplay}}
              <p style="margin:24px 0 0 0;text-align:center;color:rgba(245,240,232,0.5);font-size:13px;">This quote is valid until {{.ValidUntilDisplay}}</p>
              {{- end}}
            </td>
          </tr>
          <tr>
            <td style="padding:32px 20px;text-align:center;">
              <p style="margin:0 0 8px 0;color:rgba(245,240,232,0.4);font-size:13px;">Questions? Simply reply to this email.</p>
              <p style="margin:0;color:rgba(245,240,232,0.3);font-size:12px;">Powered by <span style="color:#c9a66b;">DetailPro</span></p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

var quoteText = texttemplate.Must(texttemplate.New("quote_text").Parse(`Hi {{.Greeting}},

Thank you for your interest! Here's your personalized detailing quote.

VEHICLE: {{.VehicleInfo}}
QUOTE TOTAL: {{.Total}}
{{- if .ValidUntilDisplay}}
VALID UNTIL: {{.ValidUntilDisplay}}
{{- end}}

View your full quote here:
{{.PublicQuoteURL}}

Questions? Simply reply to this email.

---
{{.BusinessName}}
Powered by DetailPro`))

var ownerAlertHTML = htmltemplate.Must(htmltemplate.New("owner_alert_html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="margin:0;padding:32px 20px;background-color:#0a0a0a;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;color:#f5f0e8;">
  <p style="margin:0 0 16px 0;font-size:14px;color:#c9a66b;">{{.BusinessName}}</p>
  <p style="margin:0 0 24px 0;font-size:18px;">{{.Customer}} {{.Outcome}} the quote for <strong>{{.Total}}</strong>.</p>
  <a href="{{.QuoteURL}}" style="display:inline-block;background:#c9a66b;color:#0a0a0a;text-decoration:none;padding:12px 24px;border-radius:10px;font-weight:600;">Open quote</a>
</body>
</html>
`))

var ownerAlertText = texttemplate.Must(texttemplate.New("owner_alert_text").Parse(`{{.BusinessName}}

{{.Customer}} {{.Outcome}} the quote for {{.Total}}.

Open quote: {{.QuoteURL}}
`))
