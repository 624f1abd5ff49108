// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/models"
)

// Mailer delivers composed messages. *gomail.Dialer satisfies it.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

type NotificationService struct {
	mailer Mailer
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

// NewNotificationService dials SMTP only when a host is configured. Without
// one, mail is logged and dropped.
func NewNotificationService(config *config.Config) *NotificationService {
	s := &NotificationService{config: config}
	if config.Email.SMTPHost != "" {
		s.mailer = gomail.NewDialer(
			config.Email.SMTPHost,
			config.Email.SMTPPort,
			config.Email.SMTPUsername,
			config.Email.SMTPPassword,
		)
	}
	return s
}

// NewNotificationServiceWithMailer is used when the transport is supplied by
// the caller.
func NewNotificationServiceWithMailer(config *config.Config, mailer Mailer) *NotificationService {
	return &NotificationService{mailer: mailer, config: config}
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	data := map[string]interface{}{
		"Name":    user.Name,
		"ShopURL": s.config.Frontend.BaseURL,
	}
	return s.send(user.Email, user.Name, "welcome", data)
}

func (s *NotificationService) SendOrderConfirmation(order *models.Order, name, email string) error {
	data := map[string]interface{}{
		"Name":              name,
		"OrderNumber":       order.OrderNumber,
		"Items":             order.Items,
		"Subtotal":          fmt.Sprintf("%.2f", order.Subtotal),
		"Shipping":          fmt.Sprintf("%.2f", order.Shipping),
		"Total":             fmt.Sprintf("%.2f", order.TotalAmount),
		"EstimatedDelivery": order.EstimatedDelivery.Format("Monday, January 2"),
		"OrderURL":          fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}
	return s.send(email, name, "order_confirmation", data)
}

func (s *NotificationService) SendOrderShipped(order *models.Order, name, email string) error {
	tracking := ""
	if order.Timeline.Shipped != nil {
		tracking = order.Timeline.Shipped.TrackingNumber
	}
	data := map[string]interface{}{
		"Name":           name,
		"OrderNumber":    order.OrderNumber,
		"TrackingNumber": tracking,
		"OrderURL":       fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}
	return s.send(email, name, "order_shipped", data)
}

func (s *NotificationService) send(to, name, templateType string, data interface{}) error {
	tmpl := s.getEmailTemplate(templateType)

	subject, err := s.renderTemplate(tmpl.Subject, data)
	if err != nil {
		return fmt.Errorf("failed to render email subject: %w", err)
	}
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(to, name, subject, body)
}

func (s *NotificationService) sendEmail(to, name, subject, body string) error {
	if s.mailer == nil {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email not configured, message dropped")
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.Email.FromEmail, s.config.Email.FromName)
	m.SetAddressHeader("To", to, name)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")
	return nil
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to LUXE",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Name}}!</h2>
	<p>Your LUXE account is ready. Discover the new collection below:</p>
	<a href="{{.ShopURL}}">Start shopping</a>
	<p>The LUXE Team</p>
</body>
</html>`,
		},
		"order_confirmation": {
			Subject: "Your LUXE order {{.OrderNumber}}",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.Name}}!</h2>
	<p>Order <strong>{{.OrderNumber}}</strong> is confirmed.</p>
	<table>
	{{range .Items}}
		<tr><td>{{.Name}}{{if .Size}} ({{.Size}}){{end}}</td><td>x{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
	{{end}}
	</table>
	<p>Subtotal: {{.Subtotal}}<br>Shipping: {{.Shipping}}<br><strong>Total: {{.Total}}</strong></p>
	<p>Estimated delivery: {{.EstimatedDelivery}}</p>
	<a href="{{.OrderURL}}">Track your order</a>
	<p>The LUXE Team</p>
</body>
</html>`,
		},
		"order_shipped": {
			Subject: "Your LUXE order {{.OrderNumber}} has shipped",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Good news, {{.Name}}!</h2>
	<p>Order <strong>{{.OrderNumber}}</strong> is on its way.</p>
	{{if .TrackingNumber}}<p>Tracking number: {{.TrackingNumber}}</p>{{end}}
	<a href="{{.OrderURL}}">Track your order</a>
	<p>The LUXE Team</p>
</body>
</html>`,
		},
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	return EmailTemplate{
		Subject: "LUXE notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
