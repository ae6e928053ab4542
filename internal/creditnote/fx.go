package creditnote

import (
	"github.com/vyapari/gstbill/internal/creditnote/repository"
	"github.com/vyapari/gstbill/internal/creditnote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("creditnote.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
