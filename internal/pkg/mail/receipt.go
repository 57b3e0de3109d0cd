package mail

import (
	"bytes"
	"context"
	"html/template"

	"github.com/morshidulrahman/testomg-babe/app/models"
)

const receiptSubject = "Your subscription is active"

var receiptTemplate = template.Must(template.New("receipt").Parse(`<p>Thanks for subscribing!</p>
<p>Your <strong>{{.Plan}}</strong> plan ({{.Period}}) is active until {{.EndDate}}.</p>
<p>Amount: {{.Amount}}{{if .TransactionID}}<br>Transaction: {{.TransactionID}}{{end}}</p>`))

type receiptData struct {
	Plan          string
	Period        string
	EndDate       string
	Amount        string
	TransactionID string
}

// SendSubscriptionReceipt mails the buyer a summary of the new period.
func (m *SMTPMailer) SendSubscriptionReceipt(ctx context.Context, payment *models.Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body bytes.Buffer
	err := receiptTemplate.Execute(&body, receiptData{
		Plan:          payment.Plan,
		Period:        payment.Period,
		EndDate:       payment.EndDate.Format("January 2, 2006"),
		Amount:        payment.FormattedAmount(),
		TransactionID: payment.TransactionID,
	})
	if err != nil {
		return err
	}
	return m.SendMail(ctx, payment.Email, receiptSubject, body.String())
}
