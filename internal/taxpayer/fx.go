package taxpayer

import (
	"github.com/opencommune/fiscalis/internal/taxpayer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxpayer.service",
	fx.Provide(service.NewService),
)
