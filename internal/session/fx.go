package session

import (
	"github.com/candorhq/candor/internal/session/repository"
	"github.com/candorhq/candor/internal/session/service"
	"go.uber.org/fx"
)

var Module = fx.Module("session.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
