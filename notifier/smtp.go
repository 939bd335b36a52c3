package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"order-service/models"
)

// SMTPNotifier sends order emails over plain SMTP. The recipient is the email
// captured on the order's shipping address.
type SMTPNotifier struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPNotifier(host, port, username, password string) (*SMTPNotifier, error) {
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	if username == "" {
		return nil, fmt.Errorf("SMTP_USER not set")
	}
	if password == "" {
		return nil, fmt.Errorf("SMTP_PASS not set")
	}
	return &SMTPNotifier{host, port, username, password}, nil
}

func (s *SMTPNotifier) SendOrderConfirmation(_ context.Context, order *models.Order) error {
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	body := fmt.Sprintf(
		"<p>Thanks for your order!</p><p>Order <b>%s</b> was placed on %s for a total of %d %s.</p>",
		order.OrderNumber, order.OrderDate.Format("Jan 2, 2006"), order.TotalAmount, order.Currency,
	)
	return s.send(order.ShippingAddress.Email, subject, body)
}

func (s *SMTPNotifier) SendShippingUpdate(_ context.Context, order *models.Order, status models.OrderStatus) error {
	subject := fmt.Sprintf("Order %s update: %s", order.OrderNumber, status)
	body := fmt.Sprintf(
		"<p>Your order <b>%s</b> is now <b>%s</b>.</p>",
		order.OrderNumber, status,
	)
	return s.send(order.ShippingAddress.Email, subject, body)
}

func (s *SMTPNotifier) send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient email on order")
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := []byte(
		"From: " + s.username + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, s.username, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
