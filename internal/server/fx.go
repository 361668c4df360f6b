package server

import (
	"github.com/opencommune/fiscalis/internal/audit"
	"github.com/opencommune/fiscalis/internal/notice"
	"github.com/opencommune/fiscalis/internal/taxpayer"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	audit.Module,
	taxpayer.Module,
	notice.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterAPIRoutes()
	}),
	fx.Invoke(RunHTTP),
)
