package config

import "go.uber.org/fx"

// Module provides the application configuration and the derived database
// connection settings.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(Config.Database),
)
