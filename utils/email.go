// utils/email.go
package utils

import (
	"fmt"
	"html"
	"strings"

	"github.com/keighl/postmark"
	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"go-storefront/models"
)

// Mailer delivers one message with an HTML body and its plain-text alternative
type Mailer interface {
	SendEmail(toEmail, subject, htmlContent, textContent string) error
}

// PostmarkMailer sends mail through Postmark
type PostmarkMailer struct {
	client *postmark.Client
	sender string
}

// NewPostmarkMailer creates a Postmark mailer for the given server token
func NewPostmarkMailer(apiToken, sender string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

func (m *PostmarkMailer) SendEmail(toEmail, subject, htmlContent, textContent string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
	})
	if err != nil {
		return errors.Wrap(err, "postmark: send email")
	}
	return nil
}

// SendgridMailer sends mail through SendGrid
type SendgridMailer struct {
	client *sendgrid.Client
	sender string
}

// NewSendgridMailer creates a SendGrid mailer for the given API key
func NewSendgridMailer(apiKey, sender string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

func (m *SendgridMailer) SendEmail(toEmail, subject, htmlContent, textContent string) error {
	from := mail.NewEmail("Storefront", m.sender)
	to := mail.NewEmail("", toEmail)
	msg := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	resp, err := m.client.Send(msg)
	if err != nil {
		return errors.Wrap(err, "sendgrid: send email")
	}
	if resp.StatusCode >= 400 {
		return errors.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// ReceiptService sends order receipts to shoppers
type ReceiptService struct {
	mailer Mailer
}

func NewReceiptService(m Mailer) *ReceiptService {
	return &ReceiptService{mailer: m}
}

// SendOrderReceipt mails a summary of a freshly placed order
func (rs *ReceiptService) SendOrderReceipt(toEmail string, order models.Order) error {
	if rs == nil || rs.mailer == nil {
		return nil
	}
	subject := fmt.Sprintf("Your order #%d", order.ID)
	return rs.mailer.SendEmail(toEmail, subject, ReceiptHTML(order), ReceiptText(order))
}

// ReceiptHTML renders the receipt body
func ReceiptHTML(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong>Thank you for your purchase!</strong><br><br>Order #%d<br><ul>", order.ID)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "<li>%s × %d: $%s</li>", html.EscapeString(it.ProductName), it.Quantity, FormatMoney(it.TotalPrice))
	}
	fmt.Fprintf(&b, "</ul>Total Amount: <strong>$%s</strong>", FormatMoney(order.TotalAmount))
	return b.String()
}

// ReceiptText is the plain-text alternative of ReceiptHTML
func ReceiptText(order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your purchase!\n\nOrder #%d\n", order.ID)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "- %s × %d: $%s\n", it.ProductName, it.Quantity, FormatMoney(it.TotalPrice))
	}
	fmt.Fprintf(&b, "\nTotal Amount: $%s\n", FormatMoney(order.TotalAmount))
	return b.String()
}
