package inventory

import (
	"github.com/tavolohq/tavolo/internal/inventory/repository"
	"github.com/tavolohq/tavolo/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
