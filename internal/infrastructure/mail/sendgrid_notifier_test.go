package mail

import (
	"context"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

type fakeSender struct {
	sent   []*sgmail.SGMailV3
	status int
}

func (f *fakeSender) SendWithContext(_ context.Context, m *sgmail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, m)
	return &rest.Response{StatusCode: f.status, Body: "detalle"}, nil
}

func fixture() (*entity.Alert, *entity.KPI) {
	k := &entity.KPI{Name: "OEE", Category: entity.KPICategoryEfficiency, Unit: "%", TargetValue: 90}
	a := &entity.Alert{
		Title:          "OEE bajo umbral crítico",
		Description:    "El OEE cayó por debajo de 70",
		Severity:       entity.AlertSeverityCritical,
		ThresholdValue: 70,
		CurrentValue:   65,
		CreatedAt:      time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	return a, k
}

func TestNotifyAlert_UnCorreoConTodosLosDestinatarios(t *testing.T) {
	fs := &fakeSender{status: 202}
	n := &AlertNotifier{client: fs, from: "alertas@fabrica.test", recipients: []string{"a@fabrica.test", "b@fabrica.test"}}

	a, k := fixture()
	require.NoError(t, n.NotifyAlert(context.Background(), a, k))

	require.Len(t, fs.sent, 1)
	msg := fs.sent[0]
	assert.Equal(t, "[CRITICAL] OEE bajo umbral crítico", msg.Subject)
	require.Len(t, msg.Personalizations, 1)
	assert.Len(t, msg.Personalizations[0].To, 2)
	assert.Contains(t, msg.Content[0].Value, "Valor actual: 65.00 %")
}

func TestNotifyAlert_StatusDeError(t *testing.T) {
	n := &AlertNotifier{client: &fakeSender{status: 401}, from: "x@fabrica.test", recipients: []string{"a@fabrica.test"}}
	a, k := fixture()
	err := n.NotifyAlert(context.Background(), a, k)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestNotifyAlert_SinDestinatarios(t *testing.T) {
	fs := &fakeSender{status: 202}
	n := &AlertNotifier{client: fs}
	a, k := fixture()
	require.NoError(t, n.NotifyAlert(context.Background(), a, k))
	assert.Empty(t, fs.sent)
}
