package reference

import (
	"github.com/opencommune/fiscalis/internal/reference/repository"
	"github.com/opencommune/fiscalis/internal/reference/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reference.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
