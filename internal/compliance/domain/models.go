// Package domain defines transport and e-Way bill compliance shapes.
package domain

// TransportMode is the e-Way bill transport mode.
type TransportMode string

const (
	TransportModeRoad TransportMode = "Road"
	TransportModeRail TransportMode = "Rail"
	TransportModeAir  TransportMode = "Air"
	TransportModeShip TransportMode = "Ship"
)

// PortalCode returns the numeric code the e-Way bill portal expects.
func (m TransportMode) PortalCode() string {
	switch m {
	case TransportModeRail:
		return "2"
	case TransportModeAir:
		return "3"
	case TransportModeShip:
		return "4"
	default:
		return "1"
	}
}

func (m TransportMode) Valid() bool {
	switch m {
	case TransportModeRoad, TransportModeRail, TransportModeAir, TransportModeShip:
		return true
	}
	return false
}

// TransportDetails is the logistics metadata captured with an invoice.
type TransportDetails struct {
	Mode            TransportMode `json:"mode"`
	VehicleNumber   string        `json:"vehicle_number,omitempty"`
	DistanceKm      int           `json:"distance_km"`
	TransporterID   string        `json:"transporter_id,omitempty"`
	OverDimensional bool          `json:"is_over_dimensional"`
	PortCode        string        `json:"port_code,omitempty"`
}

// AdvisorySeverity tags non-fatal compliance signals.
type AdvisorySeverity string

const (
	SeverityWarning AdvisorySeverity = "warning"
)

// Advisory is a soft compliance signal. The caller decides whether to block
// on it; the engine never does.
type Advisory struct {
	Severity AdvisorySeverity `json:"severity"`
	Field    string           `json:"field"`
	Message  string           `json:"message"`
}

// EwayAssessment is the per-invoice e-Way bill decision. Ephemeral: computed
// from the grand total and transport details, not persisted on its own.
type EwayAssessment struct {
	Required     bool       `json:"required"`
	Reason       string     `json:"reason,omitempty"`
	ValidityDays int        `json:"validity_days"`
	Advisories   []Advisory `json:"advisories,omitempty"`
}
