// Package mail implementa notify.Mailer: SMTP con gomail o solo registro en log.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/fiecl/barcode-inventory-management/internal/application/notify"
	"github.com/fiecl/barcode-inventory-management/pkg/logger"
)

// SMTPConfig servidor de salida. Puerto 587 usa STARTTLS.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// sender envía un mensaje ya armado (gomail.Dialer en producción).
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer una conexión por envío; el despachador controla concurrencia y reintentos.
type SMTPMailer struct {
	from   string
	dialer sender
	log    *logger.Logger
}

// NewSMTPMailer construye el mailer.
func NewSMTPMailer(cfg SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:    log.Named("smtp"),
	}
}

// Send envía un correo de texto plano. gomail no acepta contexto: si ctx vence antes,
// el envío sigue en segundo plano y Send devuelve notify.ErrDeliveryUnknown junto a ctx.Err(),
// que el despachador no reintenta. El resultado tardío solo queda en el log.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: enviar a %s: %w", to, err)
		}
		m.log.Debug().Str("recipient", to).Msg("correo enviado")
		return nil
	case <-ctx.Done():
		go func() {
			if err := <-done; err != nil {
				m.log.Warn().Err(err).Str("recipient", to).Msg("envío abandonado terminó con error")
				return
			}
			m.log.Info().Str("recipient", to).Msg("envío abandonado terminó entregado")
		}()
		return fmt.Errorf("smtp: enviar a %s: %w: %w", to, notify.ErrDeliveryUnknown, ctx.Err())
	}
}

// LogMailer registra el correo en lugar de enviarlo (sin SMTP configurado).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Named("mail")}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info().Str("recipient", to).Str("subject", subject).Str("body", body).Msg("correo (sin SMTP)")
	return nil
}
