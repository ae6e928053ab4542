package gstr1

import (
	"github.com/vyapari/gstbill/internal/gstr1/service"
	"go.uber.org/fx"
)

var Module = fx.Module("gstr1.service",
	fx.Provide(service.NewService),
)
