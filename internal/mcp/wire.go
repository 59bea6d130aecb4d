//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/plugplayers/internal/config"
	"github.com/honeycarbs/plugplayers/internal/domain/dashboard"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/internal/domain/teambuilder"
	"github.com/honeycarbs/plugplayers/internal/metrics"
	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Infrastructure
		provideStore,
		provideLocks,
		repository.New,
		metrics.New,

		// Services
		identity.NewDirectory,
		provideInbox,
		provideHiring,
		dashboard.NewService,
		teambuilder.Default,

		// Optional surfaces
		provideIssuer,
		provideExporter,

		wire.Struct(new(Resources), "*"),
	)

	return nil, nil, nil
}
