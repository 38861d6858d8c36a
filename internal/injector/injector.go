//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/pitchside/internal/engine"
)

func InitializeEngine(opts engine.Options) (*engine.Engine, func(), error) {
	wire.Build(engine.ProviderSet)
	return nil, nil, nil
}
