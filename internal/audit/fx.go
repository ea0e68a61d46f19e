package audit

import (
	"github.com/candorhq/candor/internal/audit/repository"
	"github.com/candorhq/candor/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
