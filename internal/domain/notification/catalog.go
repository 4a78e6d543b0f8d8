package notification

import (
	"fmt"

	"github.com/sonar-shubham/radiant-salon/internal/domain/errors"
)

// TemplateLanguage is the language every catalog template is registered in.
const TemplateLanguage = "en"

// Registered template names. Parameter order in each builder must match the
// placeholder positions of the template approved on the provider side.
const (
	TemplateAppointmentReminder     = "appointment_reminder"
	TemplateAppointmentConfirmation = "appointment_confirmation"
	TemplateAppointmentCancelled    = "appointment_cancelled"
	TemplatePaymentReceipt          = "payment_receipt"
)

// AppointmentReminder: {{1}} client, {{2}} service, {{3}} date/time, {{4}} salon.
func AppointmentReminder(clientName, serviceName, dateTime, salonName string) Template {
	return bodyTemplate(TemplateAppointmentReminder, clientName, serviceName, dateTime, salonName)
}

// AppointmentConfirmation: {{1}} client, {{2}} service, {{3}} date/time,
// {{4}} salon, {{5}} address.
func AppointmentConfirmation(clientName, serviceName, dateTime, salonName, salonAddress string) Template {
	return bodyTemplate(TemplateAppointmentConfirmation, clientName, serviceName, dateTime, salonName, salonAddress)
}

// AppointmentCancelled: {{1}} client, {{2}} service, {{3}} date/time, {{4}} salon.
func AppointmentCancelled(clientName, serviceName, dateTime, salonName string) Template {
	return bodyTemplate(TemplateAppointmentCancelled, clientName, serviceName, dateTime, salonName)
}

// PaymentReceipt: {{1}} client, {{2}} amount, {{3}} service, {{4}} transaction id.
func PaymentReceipt(clientName, amount, serviceName, transactionID string) Template {
	return bodyTemplate(TemplatePaymentReceipt, clientName, amount, serviceName, transactionID)
}

// TemplateFor builds the template for a stored notification type.
// Promotional messages are free text and have no template.
func TemplateFor(t Type, p Params) (Template, error) {
	switch t {
	case TypeAppointmentReminder:
		return AppointmentReminder(p.ClientName, p.ServiceName, p.DateTime, p.SalonName), nil
	case TypeAppointmentConfirmation:
		return AppointmentConfirmation(p.ClientName, p.ServiceName, p.DateTime, p.SalonName, p.SalonAddress), nil
	case TypeAppointmentCancelled:
		return AppointmentCancelled(p.ClientName, p.ServiceName, p.DateTime, p.SalonName), nil
	case TypePaymentReceipt:
		return PaymentReceipt(p.ClientName, p.Amount, p.ServiceName, p.TransactionID), nil
	case TypePromotional:
		return Template{}, errors.NewDomainError("no_template", "promotional notifications are sent as text", errors.ErrUnknownTemplate)
	default:
		return Template{}, errors.NewDomainError("no_template", fmt.Sprintf("no template for notification type %q", t), errors.ErrUnknownTemplate)
	}
}

func bodyTemplate(name string, values ...string) Template {
	params := make([]Parameter, len(values))
	for i, v := range values {
		params[i] = Parameter{Type: "text", Text: v}
	}
	return Template{
		Name:     name,
		Language: Language{Code: TemplateLanguage},
		Components: []Component{
			{Type: "body", Parameters: params},
		},
	}
}
