package domain

// Evaluator decides e-Way bill obligations for an invoice.
type Evaluator interface {
	// Assess reports whether an e-Way bill is mandatory for the given grand
	// total and how long it stays valid for the given transport. Advisory
	// findings (missing port code, missing vehicle) ride along; they never
	// fail the call.
	Assess(grandTotal float64, transport TransportDetails) EwayAssessment

	// ValidateTransport runs the hard format checks on transport fields:
	// vehicle registration number and transporter GSTIN.
	ValidateTransport(transport TransportDetails) error
}
