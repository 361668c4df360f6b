package audit

import (
	"github.com/opencommune/fiscalis/internal/audit/repository"
	"github.com/opencommune/fiscalis/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
