package notice

import (
	"github.com/opencommune/fiscalis/internal/notice/service"
	"github.com/opencommune/fiscalis/internal/reference"
	"go.uber.org/fx"
)

var Module = fx.Module("notice.service",
	reference.Module,
	fx.Provide(service.NewService),
)
