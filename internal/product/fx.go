package product

import (
	"github.com/vyapari/gstbill/internal/product/repository"
	"github.com/vyapari/gstbill/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
