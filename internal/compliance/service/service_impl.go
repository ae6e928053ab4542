package service

import (
	"fmt"

	compliancedomain "github.com/vyapari/gstbill/internal/compliance/domain"
	"github.com/vyapari/gstbill/internal/compliance/validate"
	"github.com/vyapari/gstbill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type EvaluatorParam struct {
	fx.In

	GSTCfg *config.GSTConfigHolder
	Log    *zap.Logger
}

type evaluator struct {
	gstCfg *config.GSTConfigHolder
	log    *zap.Logger
}

func NewEvaluator(p EvaluatorParam) compliancedomain.Evaluator {
	return &evaluator{
		gstCfg: p.GSTCfg,
		log:    p.Log.Named("compliance.evaluator"),
	}
}

func (e *evaluator) Assess(grandTotal float64, transport compliancedomain.TransportDetails) compliancedomain.EwayAssessment {
	cfg := e.gstCfg.Get()

	assessment := compliancedomain.EwayAssessment{
		ValidityDays: validityDays(transport.DistanceKm, transport.OverDimensional, cfg),
	}
	if grandTotal >= cfg.EwayThreshold {
		assessment.Required = true
		assessment.Reason = fmt.Sprintf("invoice value %.2f meets the %.0f threshold", grandTotal, cfg.EwayThreshold)
	}

	assessment.Advisories = advisories(assessment.Required, transport)
	return assessment
}

func (e *evaluator) ValidateTransport(transport compliancedomain.TransportDetails) error {
	if transport.Mode != "" && !transport.Mode.Valid() {
		return fmt.Errorf("%w: %s", compliancedomain.ErrInvalidTransportMode, transport.Mode)
	}
	if _, err := validate.VehicleNumber(transport.VehicleNumber); err != nil {
		return err
	}
	if _, err := validate.GSTIN(transport.TransporterID); err != nil {
		return err
	}
	return nil
}

// validityDays is zero until a distance is supplied; validity has no meaning
// without one.
func validityDays(distanceKm int, overDimensional bool, cfg config.GSTConfig) int {
	if distanceKm <= 0 {
		return 0
	}

	kmPerDay := cfg.RegularKmPerDay
	if overDimensional {
		kmPerDay = cfg.ODCKmPerDay
	}

	days := (distanceKm + kmPerDay - 1) / kmPerDay
	if days < 1 {
		days = 1
	}
	return days
}

func advisories(required bool, transport compliancedomain.TransportDetails) []compliancedomain.Advisory {
	var result []compliancedomain.Advisory

	if (transport.Mode == compliancedomain.TransportModeAir || transport.Mode == compliancedomain.TransportModeShip) && transport.PortCode == "" {
		result = append(result, compliancedomain.Advisory{
			Severity: compliancedomain.SeverityWarning,
			Field:    "port_code",
			Message:  fmt.Sprintf("port code is expected for %s transport", transport.Mode),
		})
	}

	if required && transport.VehicleNumber == "" {
		result = append(result, compliancedomain.Advisory{
			Severity: compliancedomain.SeverityWarning,
			Field:    "vehicle_number",
			Message:  "e-Way bill is required but no vehicle number was supplied",
		})
	}

	return result
}
