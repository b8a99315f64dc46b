// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	"recruit-admin/internal/common/aws"
	"recruit-admin/internal/common/logger"
	"recruit-admin/internal/models"
)

// EmailSender is the outbound mail surface. internal/common/aws.SESClient
// satisfies it.
type EmailSender interface {
	SendSimpleEmail(ctx context.Context, from, to, subject, body string) error
}

var _ EmailSender = (*aws.SESClient)(nil)

// Notifier sends best-effort operational emails to the recruitment team.
// Every send failure is logged and swallowed; notification must never block
// or fail the operation that triggered it.
type Notifier struct {
	sender    EmailSender
	fromEmail string
	teamEmail string
	enabled   bool
	log       logger.Logger
}

func New(sender EmailSender, fromEmail, teamEmail string, enabled bool, log logger.Logger) *Notifier {
	return &Notifier{
		sender:    sender,
		fromEmail: fromEmail,
		teamEmail: teamEmail,
		enabled:   enabled && sender != nil,
		log:       log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// ApplicantHired announces a hire to the team inbox.
func (n *Notifier) ApplicantHired(ctx context.Context, rec *models.ApplicantRecord) {
	if !n.enabled {
		return
	}
	subject := fmt.Sprintf("Contratação: %s", rec.Nome)
	body := fmt.Sprintf("O candidato %s foi contratado para a vaga %s (%s).\nPeríodo de experiência iniciado.",
		rec.Nome, rec.Vaga, rec.Cidade)
	n.send(ctx, subject, body, map[string]interface{}{"candidatura_id": rec.ID})
}

// RenewalWindowOpen alerts the team that a probation period entered its
// renewal window.
func (n *Notifier) RenewalWindowOpen(ctx context.Context, nome, vaga string, daysRemaining int, periodID string) {
	if !n.enabled {
		return
	}
	subject := fmt.Sprintf("Renovação disponível: %s", nome)
	body := fmt.Sprintf("O período de experiência de %s (%s) termina em %d dia(s) e pode ser renovado.",
		nome, vaga, daysRemaining)
	n.send(ctx, subject, body, map[string]interface{}{"period_id": periodID})
}

func (n *Notifier) send(ctx context.Context, subject, body string, fields map[string]interface{}) {
	if err := n.sender.SendSimpleEmail(ctx, n.fromEmail, n.teamEmail, subject, body); err != nil {
		fields["subject"] = subject
		n.log.WithError(err).Warn("notification email failed", fields)
		return
	}
	n.log.Debug("notification email sent", map[string]interface{}{"subject": subject})
}
