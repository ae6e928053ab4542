package gst

import (
	"github.com/vyapari/gstbill/internal/gst/service"
	"go.uber.org/fx"
)

var Module = fx.Module("gst.calculator",
	fx.Provide(service.NewCalculator),
)
