package invoice

import (
	"github.com/vyapari/gstbill/internal/invoice/repository"
	"github.com/vyapari/gstbill/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
