package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPaymentSuccess(toEmail, masterTxnId string, totalAmount float64, currency string) error
	SendPaymentFailed(toEmail, masterTxnId string, totalAmount float64, currency, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendPaymentSuccess(toEmail, masterTxnId string, totalAmount float64, currency string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Payment Confirmed - Split Payment")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment Confirmed</h2>
			<p>Your split payment of <b>%s %.2f</b> was successful.</p>
			<p>Transaction ID: %s</p>
		</div>
	`, currency, totalAmount, masterTxnId)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send success mail to %s: %v\n", maskEmail(toEmail), err)
		return err
	}

	fmt.Printf("[MAILER] Success mail sent to %s\n", maskEmail(toEmail))
	return nil
}

func (s *emailService) SendPaymentFailed(toEmail, masterTxnId string, totalAmount float64, currency, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Payment Failed - Split Payment")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment Failed</h2>
			<p>Your split payment of <b>%s %.2f</b> could not be completed.</p>
			<p>Reason: %s</p>
			<p>Transaction ID: %s</p>
			<p>Refunds have been initiated for any parts that had already gone through.</p>
		</div>
	`, currency, totalAmount, reason, masterTxnId)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send failure mail to %s: %v\n", maskEmail(toEmail), err)
		return err
	}

	fmt.Printf("[MAILER] Failure mail sent to %s\n", maskEmail(toEmail))
	return nil
}

// maskEmail keeps addresses out of plain logs ("jo***@example.com").
func maskEmail(email string) string {
	at := -1
	for i, c := range email {
		if c == '@' {
			at = i
			break
		}
	}
	if at <= 2 {
		return "***"
	}
	return email[:2] + "***" + email[at:]
}
