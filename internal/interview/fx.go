package interview

import (
	"github.com/candorhq/candor/internal/interview/repository"
	"github.com/candorhq/candor/internal/interview/service"
	"go.uber.org/fx"
)

var Module = fx.Module("interview.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
