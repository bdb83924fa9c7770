package llm

// AgentTools is the static tool catalog exposed to the model. Built once,
// never mutated.
var AgentTools = []Tool{
	{
		Name:        "getAvailability",
		Description: "Gibt freie Zeitfenster für eine Leistung zurück.",
		Parameters: objReq(map[string]any{
			"service":         prop("string", "Name der Leistung, z.B. Herrenhaarschnitt"),
			"locationId":      prop("string", "Optionale Filial-ID"),
			"staffId":         prop("string", "Optionale Mitarbeiter-ID"),
			"dateFrom":        propFmt("string", "date-time", "Frühester Termin (RFC 3339)"),
			"dateTo":          propFmt("string", "date-time", "Spätester Termin (RFC 3339)"),
			"durationMinutes": prop("integer", "Dauer in Minuten, überschreibt den Katalogwert"),
		}, "service", "dateFrom", "dateTo"),
	},
	{
		Name:        "createBooking",
		Description: "Legt einen Termin an.",
		Parameters: objReq(map[string]any{
			"service":         prop("string", "Name der Leistung"),
			"start":           propFmt("string", "date-time", "Beginn des Termins (RFC 3339)"),
			"durationMinutes": prop("integer", "Dauer in Minuten"),
			"locationId":      prop("string", "Optionale Filial-ID"),
			"staffId":         prop("string", "Optionale Mitarbeiter-ID"),
			"customer": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  prop("string", "Name des Kunden"),
					"email": prop("string", "E-Mail-Adresse"),
					"phone": prop("string", "Telefonnummer"),
				},
				"required": []string{"name"},
			},
			"notes": prop("string", "Freitext-Notizen zum Termin"),
		}, "service", "start", "durationMinutes", "customer"),
	},
	{
		Name:        "cancelBooking",
		Description: "Storniert einen Termin.",
		Parameters: objReq(map[string]any{
			"bookingId": prop("string", "ID der Buchung"),
			"reason":    prop("string", "Optionaler Stornierungsgrund"),
		}, "bookingId"),
	},
	{
		Name:        "getPriceEstimate",
		Description: "Gibt eine unverbindliche Maler-Richtpreisschätzung.",
		Parameters: objReq(map[string]any{
			"squareMeters":  prop("number", "Zu streichende Fläche in Quadratmetern"),
			"rooms":         prop("integer", "Anzahl der Räume (Standard 1)"),
			"ceilingHeight": prop("number", "Deckenhöhe in Metern (Standard 2.5)"),
			"surface":       prop("string", "Untergrund, z.B. Putz, Tapete"),
			"paintQuality": map[string]any{
				"type":        "string",
				"enum":        []string{"basic", "premium"},
				"description": "Farbqualität",
			},
			"locationPostalCode": prop("string", "PLZ für Anfahrtspauschale"),
		}, "squareMeters", "paintQuality"),
	},
	{
		Name:        "sendMessage",
		Description: "Bestätigung per E-Mail/SMS/WhatsApp verschicken.",
		Parameters: objReq(map[string]any{
			"channel": map[string]any{
				"type":        "string",
				"enum":        []string{"email", "sms", "whatsapp"},
				"description": "Versandkanal",
			},
			"to":      prop("string", "Empfängeradresse bzw. -nummer"),
			"subject": prop("string", "Betreff (nur E-Mail)"),
			"body":    prop("string", "Nachrichtentext"),
		}, "channel", "to", "body"),
	},
}

// Helper functions for building JSON Schema objects.

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func propFmt(typ, format, desc string) map[string]any {
	return map[string]any{"type": typ, "format": format, "description": desc}
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func objReq(properties map[string]any, required ...string) map[string]any {
	s := obj(properties)
	s["required"] = required
	return s
}
