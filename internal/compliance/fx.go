package compliance

import (
	"github.com/vyapari/gstbill/internal/compliance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("compliance.evaluator",
	fx.Provide(service.NewEvaluator),
)
