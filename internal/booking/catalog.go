// Package booking implements the tool registry the agent dispatches into:
// availability lookup, booking creation/cancellation, painter price
// estimates, and confirmation sending. Everything here is a simulation
// layer: nothing persists beyond the request and nothing is actually
// delivered. Swap the handlers for real backends to go live.
package booking

import "time"

// DefaultServices maps a service name to its canonical duration in minutes.
var DefaultServices = map[string]int{
	"Damenhaarschnitt":   45,
	"Herrenhaarschnitt":  30,
	"Coloration":         120,
	"Besichtigung Maler": 60,
}

const (
	defaultDuration = 60 // minutes, when neither the call nor the catalog says otherwise
	slotCount       = 3
	slotSpacing     = 2 * time.Hour

	vatRate          = 0.19
	basicRate        = 7.5 // EUR per square meter
	premiumRate      = 10.5
	baseCeiling      = 2.5 // meters
	roomSurchargePct = 0.05
	travelSurcharge  = 25.0

	priceDisclaimer = "Unverbindliche Richtpreis-Schätzung. Vor-Ort-Besichtigung empfohlen."
)

// Slot is one free time window offered to the customer.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Customer identifies who a booking is for. Only the name is required.
type Customer struct {
	Name  string `json:"name" mapstructure:"name"`
	Email string `json:"email,omitempty" mapstructure:"email"`
	Phone string `json:"phone,omitempty" mapstructure:"phone"`
}

// Booking echoes the confirmed appointment back to the model.
type Booking struct {
	BookingID       string    `json:"bookingId"`
	Service         string    `json:"service"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
	LocationID      string    `json:"locationId,omitempty"`
	StaffID         string    `json:"staffId,omitempty"`
	Customer        Customer  `json:"customer"`
	Notes           string    `json:"notes,omitempty"`
}

// PriceEstimate is a painter quote. Net and VAT are each rounded to two
// decimals before Gross is formed from their sum, so Gross == Net + VAT
// holds exactly on the serialized values.
type PriceEstimate struct {
	Net   float64 `json:"net"`
	VAT   float64 `json:"vat"`
	Gross float64 `json:"gross"`
}
