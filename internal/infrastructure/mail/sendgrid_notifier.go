// Package mail envía avisos de alertas por correo con SendGrid.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/pkg/config"
)

const senderName = "Fábrica - Alertas"

// sender abstrae el cliente de SendGrid.
type sender interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// AlertNotifier implementa analytics.AlertNotifier enviando un correo a los destinatarios configurados.
type AlertNotifier struct {
	client     sender
	from       string
	recipients []string
}

var _ analytics.AlertNotifier = (*AlertNotifier)(nil)

// NewAlertNotifier construye el notificador a partir de la configuración de correo.
func NewAlertNotifier(cfg config.MailConfig) *AlertNotifier {
	return &AlertNotifier{
		client:     sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:       cfg.From,
		recipients: cfg.AlertEmails,
	}
}

// NotifyAlert envía un único correo con todos los destinatarios.
func (n *AlertNotifier) NotifyAlert(ctx context.Context, alert *entity.Alert, kpi *entity.KPI) error {
	if len(n.recipients) == 0 {
		return nil
	}

	msg := sgmail.NewV3Mail()
	msg.SetFrom(sgmail.NewEmail(senderName, n.from))
	msg.Subject = subject(alert)

	p := sgmail.NewPersonalization()
	for _, to := range n.recipients {
		p.AddTos(sgmail.NewEmail("", to))
	}
	msg.AddPersonalizations(p)

	body := alertBody(alert, kpi)
	msg.AddContent(
		sgmail.NewContent("text/plain", body),
		sgmail.NewContent("text/html", "<pre>"+body+"</pre>"),
	)

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}

func subject(a *entity.Alert) string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(a.Severity), a.Title)
}

func alertBody(a *entity.Alert, k *entity.KPI) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", a.Description)
	fmt.Fprintf(&b, "KPI: %s (%s)\n", k.Name, k.Category)
	fmt.Fprintf(&b, "Valor actual: %.2f %s\n", a.CurrentValue, k.Unit)
	fmt.Fprintf(&b, "Umbral: %.2f %s\n", a.ThresholdValue, k.Unit)
	fmt.Fprintf(&b, "Meta: %.2f %s\n", k.TargetValue, k.Unit)
	fmt.Fprintf(&b, "Fecha: %s\n", a.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}
