package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// handler executes one tool over already-normalized arguments. Errors are
// folded into an error payload by Dispatch, never surfaced to the loop.
type handler func(args map[string]any) (any, error)

// Registry maps tool names to handlers over an immutable service catalog.
// Construct once at process start; safe for concurrent dispatch since
// handlers share no mutable state.
type Registry struct {
	services map[string]int
	handlers map[string]handler

	// Injection points for tests.
	now   func() time.Time
	newID func() string
}

func NewRegistry(services map[string]int) *Registry {
	r := &Registry{
		services: services,
		now:      time.Now,
		newID:    newBookingID,
	}
	r.handlers = map[string]handler{
		"getAvailability":  r.getAvailability,
		"createBooking":    r.createBooking,
		"cancelBooking":    r.cancelBooking,
		"getPriceEstimate": r.getPriceEstimate,
		"sendMessage":      r.sendMessage,
	}
	return r
}

// Dispatch runs the named tool and returns its result as a JSON string to
// hand back to the model. Every failure (malformed arguments, unknown
// tool, handler error) becomes an {"error": ...} payload so the model can
// recover; Dispatch itself never fails.
func (r *Registry) Dispatch(name string, rawArgs any) (payload string) {
	defer func() {
		if p := recover(); p != nil {
			payload = errPayload(fmt.Sprintf("tool %s failed: %v", name, p))
		}
	}()

	args, err := normalizeArgs(rawArgs)
	if err != nil {
		return errPayload(fmt.Sprintf("invalid arguments for %s: %v", name, err))
	}
	h, ok := r.handlers[name]
	if !ok {
		return errPayload("Unknown tool " + name)
	}
	result, err := h(args)
	if err != nil {
		return errPayload(err.Error())
	}
	b, _ := json.Marshal(result) // handlers return plain structs and maps; marshal cannot fail
	return string(b)
}

// normalizeArgs accepts the argument shapes model providers produce:
// an already-parsed map, a JSON-encoded string, or nothing at all.
func normalizeArgs(rawArgs any) (map[string]any, error) {
	switch v := rawArgs.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case string:
		if v == "" {
			return map[string]any{}, nil
		}
		args := map[string]any{}
		if err := json.Unmarshal([]byte(v), &args); err != nil {
			return nil, err
		}
		return args, nil
	case json.RawMessage:
		return normalizeArgs(string(v))
	default:
		return nil, fmt.Errorf("unsupported argument type %T", rawArgs)
	}
}

func errPayload(msg string) string {
	b, _ := json.Marshal(map[string]any{"error": msg})
	return string(b)
}

// decodeArgs maps loosely-typed model arguments onto a typed per-tool
// struct. Weak typing is deliberate: models send integers as float64 and
// occasionally numbers as strings.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid tool arguments: %v", err)
	}
	return nil
}

// --- getAvailability ---

type availabilityArgs struct {
	Service         string `mapstructure:"service"`
	LocationID      string `mapstructure:"locationId"`
	StaffID         string `mapstructure:"staffId"`
	DateFrom        string `mapstructure:"dateFrom"`
	DateTo          string `mapstructure:"dateTo"`
	DurationMinutes int    `mapstructure:"durationMinutes"`
}

func (r *Registry) getAvailability(args map[string]any) (any, error) {
	var a availabilityArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	// Duration: explicit override, then catalog, then the house default.
	dur := a.DurationMinutes
	if dur <= 0 {
		if d, ok := r.services[a.Service]; ok {
			dur = d
		} else {
			dur = defaultDuration
		}
	}

	start := r.now().UTC()
	if a.DateFrom != "" {
		t, err := parseTime(a.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid dateFrom %q", a.DateFrom)
		}
		start = t
	}

	slots := make([]Slot, 0, slotCount)
	for i := 0; i < slotCount; i++ {
		s := start.Add(time.Duration(i) * slotSpacing)
		slots = append(slots, Slot{Start: s, End: s.Add(time.Duration(dur) * time.Minute)})
	}

	return map[string]any{"slots": slots, "durationMinutes": dur}, nil
}

// --- createBooking ---

type bookingArgs struct {
	Service         string   `mapstructure:"service"`
	Start           string   `mapstructure:"start"`
	DurationMinutes int      `mapstructure:"durationMinutes"`
	LocationID      string   `mapstructure:"locationId"`
	StaffID         string   `mapstructure:"staffId"`
	Customer        Customer `mapstructure:"customer"`
	Notes           string   `mapstructure:"notes"`
}

func (r *Registry) createBooking(args map[string]any) (any, error) {
	var a bookingArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Service == "" {
		return nil, errors.New("service is required")
	}
	if a.DurationMinutes <= 0 {
		return nil, errors.New("durationMinutes must be positive")
	}
	if a.Customer.Name == "" {
		return nil, errors.New("customer.name is required")
	}
	start, err := parseTime(a.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start %q", a.Start)
	}

	return Booking{
		BookingID:       r.newID(),
		Service:         a.Service,
		Start:           start,
		End:             start.Add(time.Duration(a.DurationMinutes) * time.Minute),
		DurationMinutes: a.DurationMinutes,
		LocationID:      a.LocationID,
		StaffID:         a.StaffID,
		Customer:        a.Customer,
		Notes:           a.Notes,
	}, nil
}

func newBookingID() string {
	return "bk_" + uuid.NewString()
}

// --- cancelBooking ---

type cancelArgs struct {
	BookingID string `mapstructure:"bookingId"`
	Reason    string `mapstructure:"reason"`
}

func (r *Registry) cancelBooking(args map[string]any) (any, error) {
	var a cancelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.BookingID == "" {
		return nil, errors.New("bookingId is required")
	}
	var reason *string
	if a.Reason != "" {
		reason = &a.Reason
	}
	return map[string]any{
		"bookingId": a.BookingID,
		"status":    "cancelled",
		"reason":    reason,
	}, nil
}

// --- getPriceEstimate ---

type estimateArgs struct {
	SquareMeters       float64 `mapstructure:"squareMeters"`
	Rooms              int     `mapstructure:"rooms"`
	CeilingHeight      float64 `mapstructure:"ceilingHeight"`
	Surface            string  `mapstructure:"surface"`
	PaintQuality       string  `mapstructure:"paintQuality"`
	LocationPostalCode string  `mapstructure:"locationPostalCode"`
}

func (r *Registry) getPriceEstimate(args map[string]any) (any, error) {
	var a estimateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.SquareMeters <= 0 {
		return nil, errors.New("squareMeters must be positive")
	}

	base := basicRate
	if a.PaintQuality == "premium" {
		base = premiumRate
	}
	height := a.CeilingHeight
	if height == 0 {
		height = baseCeiling
	}
	heightFactor := math.Max(1, height/baseCeiling)
	rooms := a.Rooms
	if rooms == 0 {
		rooms = 1
	}
	roomFactor := 1 + roomSurchargePct*math.Max(0, float64(rooms-1))
	travel := 0.0
	if a.LocationPostalCode != "" {
		travel = travelSurcharge
	}

	// Net and VAT are rounded independently; gross is the sum of the two
	// rounded figures. Keeping this order makes estimates reproducible to
	// the cent across reruns.
	net := a.SquareMeters*base*heightFactor*roomFactor + travel
	vat := round2(net * vatRate)
	netRounded := round2(net)

	return map[string]any{
		"estimate":   PriceEstimate{Net: netRounded, VAT: vat, Gross: netRounded + vat},
		"disclaimer": priceDisclaimer,
	}, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// --- sendMessage ---

type sendArgs struct {
	Channel string `mapstructure:"channel"`
	To      string `mapstructure:"to"`
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
}

func (r *Registry) sendMessage(args map[string]any) (any, error) {
	var a sendArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	// Delivery stub. A real integration would pick an email/SMS/WhatsApp
	// gateway off a.Channel here.
	return map[string]any{"delivered": true}, nil
}

// parseTime accepts RFC 3339 plus the slightly sloppy shapes models
// produce: a missing timezone or a bare date.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
