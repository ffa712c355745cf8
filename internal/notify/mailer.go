package notify

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/anandology/stringart.in/internal/domain"
	"go.uber.org/zap"
)

type Email struct {
	From    string
	To      string
	Subject string
	Body    string
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`Dear {{.Order.Customer.Name}},

Thank you for your order! Here are your order details:

Order Number: {{.Order.OrderNumber}}
Total Amount: ₹{{.Order.TotalPrice}}

Items:
{{range .Order.Items}}- {{.Title}} x{{.Quantity}} = ₹{{.Subtotal}}
{{end}}
Shipping Address:
{{.Order.Customer.AddressLine1}}
{{with .Order.Customer.AddressLine2}}{{.}}
{{end}}{{.Order.Customer.City}}, {{.Order.Customer.State}} {{.Order.Customer.PinCode}}

Payment Instructions:
1. Scan the QR code or open the payment link below
2. Complete the UPI payment
3. Reply to this email to confirm payment

Payment Link: {{.Order.PaymentLink}}
{{with .InstructionsURL}}Instructions: {{.}}
{{end}}
Best regards,
String Art Team
`))

// Mailer renders confirmation emails. Delivery is a structured log record;
// there is no mail transport.
type Mailer struct {
	From           string
	PaymentBaseURL string
	log            *zap.Logger
}

func NewMailer(from, paymentBaseURL string, log *zap.Logger) *Mailer {
	return &Mailer{
		From:           from,
		PaymentBaseURL: strings.TrimRight(paymentBaseURL, "/"),
		log:            log,
	}
}

func (m *Mailer) Compose(order domain.Order) (*Email, error) {
	var instructions string
	if m.PaymentBaseURL != "" {
		instructions = fmt.Sprintf("%s/payment-instructions/%s", m.PaymentBaseURL, order.OrderNumber)
	}

	var body strings.Builder
	err := confirmationTmpl.Execute(&body, struct {
		Order           domain.Order
		InstructionsURL string
	}{order, instructions})
	if err != nil {
		return nil, fmt.Errorf("render confirmation email: %w", err)
	}

	return &Email{
		From:    m.From,
		To:      order.Customer.Email,
		Subject: "Order Confirmation - " + order.OrderNumber,
		Body:    body.String(),
	}, nil
}

func (m *Mailer) Send(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email, err := m.Compose(order)
	if err != nil {
		return err
	}
	m.log.Info("confirmation email prepared",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", email.From),
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("body", email.Body))
	return nil
}
