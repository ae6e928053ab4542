package reference

import (
	"context"
	"sort"

	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	"github.com/vyapari/gstbill/internal/compliance/validate"
	"github.com/vyapari/gstbill/internal/config"
	"github.com/vyapari/gstbill/internal/reference/domain"
	"go.uber.org/fx"
)

type repository struct {
	gstCfg *config.GSTConfigHolder
	states []domain.State
	modes  []domain.TransportModeInfo
}

type Params struct {
	fx.In

	GSTCfg *config.GSTConfigHolder
}

func NewRepository(p Params) domain.Repository {
	codes := validate.StateCodes()
	states := make([]domain.State, 0, len(codes))
	for code, name := range codes {
		states = append(states, domain.State{Code: code, Name: name})
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Code < states[j].Code })

	modes := make([]domain.TransportModeInfo, 0, 4)
	for _, mode := range []compliancedomain.TransportMode{
		compliancedomain.TransportModeRoad,
		compliancedomain.TransportModeRail,
		compliancedomain.TransportModeAir,
		compliancedomain.TransportModeShip,
	} {
		modes = append(modes, domain.TransportModeInfo{
			Mode:       string(mode),
			PortalCode: mode.PortalCode(),
		})
	}

	return &repository{gstCfg: p.GSTCfg, states: states, modes: modes}
}

func (r *repository) ListStates(ctx context.Context) ([]domain.State, error) {
	return r.states, nil
}

func (r *repository) ListTransportModes(ctx context.Context) ([]domain.TransportModeInfo, error) {
	return r.modes, nil
}

// ListGSTRates reads the live config so a hot-reloaded slab list shows up
// without a restart.
func (r *repository) ListGSTRates(ctx context.Context) ([]float64, error) {
	rates := r.gstCfg.Get().Rates
	out := make([]float64, len(rates))
	copy(out, rates)
	sort.Float64s(out)
	return out, nil
}
