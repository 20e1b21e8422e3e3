package booking

import (
	"strings"

	"barberbook/internal/calendar"
	"barberbook/internal/model"
)

// FormatMessage renders the confirmation text sent through the handoff.
func FormatMessage(business string, b model.Booking) string {
	var sb strings.Builder
	sb.WriteString("Hola 👋 quiero agendar en ")
	sb.WriteString(business)
	sb.WriteString(":\n\n")
	sb.WriteString("📅 Día: " + calendar.FormatLongDate(b.Slot.Date) + "\n")
	sb.WriteString("⏰ Hora: " + b.Slot.Time.String() + "\n")
	sb.WriteString("✂️ Servicio: " + b.Service + "\n")
	if b.CustomerName != "" {
		sb.WriteString("👤 Nombre: " + b.CustomerName + "\n")
	}
	if b.CustomerPhone != "" {
		sb.WriteString("📞 Teléfono: " + b.CustomerPhone + "\n")
	}
	sb.WriteString("\nQuedo atento 👍")
	return sb.String()
}
