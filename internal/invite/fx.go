package invite

import (
	"github.com/candorhq/candor/internal/invite/repository"
	"github.com/candorhq/candor/internal/invite/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invite.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
