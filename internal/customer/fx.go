package customer

import (
	"github.com/vyapari/gstbill/internal/customer/repository"
	"github.com/vyapari/gstbill/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
