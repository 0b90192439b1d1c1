package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/mercamax/mercamax-api/internal/application/auth"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

var _ auth.Mailer = (*SendGridMailer)(nil)

// SendGridMailer envía los correos transaccionales (OTP, invitaciones,
// restablecimiento de contraseña) vía SendGrid.
type SendGridMailer struct {
	apiKey   string
	from     string
	fromName string
	log      *logger.Logger
}

func NewSendGridMailer(apiKey, from, fromName string, log *logger.Logger) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, from: from, fromName: fromName, log: log}
}

func (m *SendGridMailer) SendOTP(ctx context.Context, to, name, code string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\nTu código de verificación es: %s\n\nEl código expira en 5 minutos. Si no intentaste iniciar sesión, ignora este correo.",
		name, code)
	return m.send(ctx, to, name, "Tu código de verificación - MercaMax", body)
}

func (m *SendGridMailer) SendInvite(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\nHas sido invitado a MercaMax. Activa tu cuenta en el siguiente enlace:\n\n%s\n\nEl enlace expira en 3 días.",
		name, link)
	return m.send(ctx, to, name, "Invitación a MercaMax", body)
}

func (m *SendGridMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\nRecibimos una solicitud para restablecer tu contraseña. Continúa en el siguiente enlace:\n\n%s\n\nEl enlace expira en 60 minutos. Si no fuiste tú, ignora este correo.",
		name, link)
	return m.send(ctx, to, name, "Restablecer contraseña - MercaMax", body)
}

func (m *SendGridMailer) send(ctx context.Context, to, toName, subject, body string) error {
	if m.apiKey == "" {
		return fmt.Errorf("sendgrid: api key vacía")
	}
	from := sgmail.NewEmail(m.fromName, m.from)
	recipient := sgmail.NewEmail(toName, to)
	html := fmt.Sprintf("<pre>%s</pre>", body)
	message := sgmail.NewSingleEmail(from, subject, recipient, body, html)

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		m.log.Error().
			Int("status", resp.StatusCode).
			Str("body", resp.Body).
			Msg("sendgrid rechazó el correo")
		return fmt.Errorf("sendgrid: status %d", resp.StatusCode)
	}
	m.log.Info().Str("to", to).Str("subject", subject).Msg("correo enviado")
	return nil
}
