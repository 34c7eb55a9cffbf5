package audit

import (
	"github.com/tavolohq/tavolo/internal/audit/repository"
	"github.com/tavolohq/tavolo/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
