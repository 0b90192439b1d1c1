package mail

import (
	"context"

	"github.com/mercamax/mercamax-api/internal/application/auth"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

var _ auth.Mailer = (*LogMailer)(nil)

// LogMailer escribe los correos al log en lugar de enviarlos. Se usa en
// desarrollo cuando no hay API key de SendGrid configurada: el OTP y los
// enlaces de activación salen por consola.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(ctx context.Context, to, name, code string) error {
	m.log.Info().Str("to", to).Str("codigo", code).Msg("correo OTP (modo log)")
	return nil
}

func (m *LogMailer) SendInvite(ctx context.Context, to, name, link string) error {
	m.log.Info().Str("to", to).Str("enlace", link).Msg("correo de invitación (modo log)")
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	m.log.Info().Str("to", to).Str("enlace", link).Msg("correo de restablecimiento (modo log)")
	return nil
}
