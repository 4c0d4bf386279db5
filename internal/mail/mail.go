package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"bookstore/internal/models"
)

// Sender delivers transactional email over SMTP. It is injected into the
// order handlers so tests can substitute a fake.
type Sender struct {
	smtpAddress string
	smtpHost    string
	from        string
	password    string
}

func NewSender(smtpAddress, smtpHost, from, password string) *Sender {
	return &Sender{
		smtpAddress: smtpAddress,
		smtpHost:    smtpHost,
		from:        from,
		password:    password,
	}
}

type statusEmailData struct {
	Name             string
	OrderNumber      string
	TrackingNumber   string
	ShippingProvider string
	TrackingURL      string
}

var statusTemplates = map[string]*template.Template{
	models.OrderStatusShipped: template.Must(template.New("shipped").Parse(`
<p>Assalamu alaikum {{.Name}},</p>
<p>Your order <b>{{.OrderNumber}}</b> has been shipped.</p>
{{if .TrackingNumber}}<p>Tracking number: <b>{{.TrackingNumber}}</b>{{if .ShippingProvider}} via {{.ShippingProvider}}{{end}}.</p>{{end}}
{{if .TrackingURL}}<p>Track your package: <a href="{{.TrackingURL}}">{{.TrackingURL}}</a></p>{{end}}
<p>JazakAllah khair for shopping with us.</p>`)),
	models.OrderStatusDelivered: template.Must(template.New("delivered").Parse(`
<p>Assalamu alaikum {{.Name}},</p>
<p>Your order <b>{{.OrderNumber}}</b> has been delivered.</p>
<p>We hope the books benefit you. JazakAllah khair.</p>`)),
	models.OrderStatusRTO: template.Must(template.New("rto").Parse(`
<p>Assalamu alaikum {{.Name}},</p>
<p>Your order <b>{{.OrderNumber}}</b> could not be delivered and is being returned to us.</p>
<p>Please contact support so we can arrange redelivery or a refund.</p>`)),
}

var statusSubjects = map[string]string{
	models.OrderStatusShipped:   "Your order %s has been shipped",
	models.OrderStatusDelivered: "Your order %s has been delivered",
	models.OrderStatusRTO:       "Your order %s is being returned",
}

// SendOrderStatus emails the order's contact address about a status change.
// Statuses without a template (pending) are a no-op.
func (s *Sender) SendOrderStatus(order models.Order, status string) error {
	tmpl, ok := statusTemplates[status]
	if !ok {
		return nil
	}

	var body bytes.Buffer
	err := tmpl.Execute(&body, statusEmailData{
		Name:             order.Customer.Name,
		OrderNumber:      order.OrderNumber,
		TrackingNumber:   order.Fulfillment.TrackingNumber,
		ShippingProvider: order.Fulfillment.ShippingProvider,
		TrackingURL:      order.Fulfillment.TrackingURL,
	})
	if err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	subject := fmt.Sprintf(statusSubjects[status], order.OrderNumber)
	message := fmt.Sprintf(
		"From: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		s.from,
		subject,
		body.String(),
	)

	auth := smtp.PlainAuth("", s.from, s.password, s.smtpHost)
	if err := smtp.SendMail(s.smtpAddress, auth, s.from, []string{order.Customer.Email}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
