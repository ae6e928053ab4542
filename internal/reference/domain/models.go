// Package domain defines the static lookup data the point-of-sale UI needs
// to render its dropdowns.
package domain

import "context"

// State is an Indian GST state with its 2-digit portal code.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TransportModeInfo pairs a transport mode with the numeric code the e-Way
// bill portal expects for it.
type TransportModeInfo struct {
	Mode       string `json:"mode"`
	PortalCode string `json:"portal_code"`
}

type Repository interface {
	ListStates(ctx context.Context) ([]State, error)
	ListTransportModes(ctx context.Context) ([]TransportModeInfo, error)
	ListGSTRates(ctx context.Context) ([]float64, error)
}
