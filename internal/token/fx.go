package token

import (
	"github.com/candorhq/candor/internal/clock"
	"github.com/candorhq/candor/internal/config"
	"go.uber.org/fx"
)

func provideCodec(cfg config.Config, clk clock.Clock) (*Codec, error) {
	return NewCodec(cfg.CandidateJWTSecret, clk)
}

// Module wires the candidate token codec.
var Module = fx.Module("token",
	fx.Provide(provideCodec),
)
