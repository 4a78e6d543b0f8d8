package notification_test

import (
	"testing"

	"github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyTexts(t *testing.T, tmpl notification.Template) []string {
	t.Helper()
	require.Len(t, tmpl.Components, 1)
	assert.Equal(t, "body", tmpl.Components[0].Type)
	texts := make([]string, 0, len(tmpl.Components[0].Parameters))
	for _, p := range tmpl.Components[0].Parameters {
		assert.Equal(t, "text", p.Type)
		texts = append(texts, p.Text)
	}
	return texts
}

func TestAppointmentReminder_Pure(t *testing.T) {
	a := notification.AppointmentReminder("Asha", "Haircut", "2024-05-01 10:00", "Glow Salon")
	b := notification.AppointmentReminder("Asha", "Haircut", "2024-05-01 10:00", "Glow Salon")

	assert.Equal(t, a, b)

	// Modifying one result must not leak into the next call.
	a.Components[0].Parameters[0].Text = "changed"
	c := notification.AppointmentReminder("Asha", "Haircut", "2024-05-01 10:00", "Glow Salon")
	assert.Equal(t, b, c)
}

func TestCatalog_ParameterOrder(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     notification.Template
		wantName string
		want     []string
	}{
		{
			name:     "reminder",
			tmpl:     notification.AppointmentReminder("Asha", "Haircut", "2024-05-01 10:00", "Glow Salon"),
			wantName: "appointment_reminder",
			want:     []string{"Asha", "Haircut", "2024-05-01 10:00", "Glow Salon"},
		},
		{
			name:     "confirmation",
			tmpl:     notification.AppointmentConfirmation("Asha", "Haircut", "2024-05-01 10:00", "Glow Salon", "12 MG Road"),
			wantName: "appointment_confirmation",
			want:     []string{"Asha", "Haircut", "2024-05-01 10:00", "Glow Salon", "12 MG Road"},
		},
		{
			name:     "cancelled",
			tmpl:     notification.AppointmentCancelled("Asha", "Haircut", "2024-05-01 10:00", "Glow Salon"),
			wantName: "appointment_cancelled",
			want:     []string{"Asha", "Haircut", "2024-05-01 10:00", "Glow Salon"},
		},
		{
			name:     "receipt",
			tmpl:     notification.PaymentReceipt("Asha", "500.00 INR", "Haircut", "pay_123"),
			wantName: "payment_receipt",
			want:     []string{"Asha", "500.00 INR", "Haircut", "pay_123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.tmpl.Name)
			assert.Equal(t, "en", tt.tmpl.Language.Code)
			assert.Equal(t, tt.want, bodyTexts(t, tt.tmpl))
		})
	}
}

func TestTemplateFor(t *testing.T) {
	p := notification.Params{
		ClientName:    "Asha",
		ServiceName:   "Haircut",
		DateTime:      "2024-05-01 10:00",
		SalonName:     "Glow Salon",
		SalonAddress:  "12 MG Road",
		Amount:        "500.00 INR",
		TransactionID: "pay_123",
	}

	got, err := notification.TemplateFor(notification.TypeAppointmentConfirmation, p)
	require.NoError(t, err)
	assert.Equal(t, notification.AppointmentConfirmation("Asha", "Haircut", "2024-05-01 10:00", "Glow Salon", "12 MG Road"), got)

	got, err = notification.TemplateFor(notification.TypePaymentReceipt, p)
	require.NoError(t, err)
	assert.Equal(t, notification.PaymentReceipt("Asha", "500.00 INR", "Haircut", "pay_123"), got)

	_, err = notification.TemplateFor(notification.TypePromotional, p)
	assert.ErrorIs(t, err, errors.ErrUnknownTemplate)

	_, err = notification.TemplateFor(notification.Type("birthday"), p)
	assert.ErrorIs(t, err, errors.ErrUnknownTemplate)
}

func TestTemplate_Preview(t *testing.T) {
	tmpl := notification.PaymentReceipt("Asha", "500.00 INR", "Haircut", "pay_123")
	assert.Equal(t, "payment_receipt | Asha | 500.00 INR | Haircut | pay_123", tmpl.Preview())
}
