// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"readrocket_backend/internal/app"
	"readrocket_backend/internal/config"
	"readrocket_backend/internal/identity"
	"readrocket_backend/internal/jobs"
	"readrocket_backend/internal/platform/database"
	"readrocket_backend/internal/platform/logger"
	"readrocket_backend/internal/profile"
	"readrocket_backend/internal/tenant"
	"readrocket_backend/internal/token"
	"readrocket_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Identity provider
		identity.NewFirebaseVerifier,
		wire.Bind(new(identity.Verifier), new(*identity.FirebaseVerifier)),

		// Core services
		tenant.NewRegistry,
		token.NewIssuer,
		profile.NewGORMRepository,
		user.NewService,
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),

		// Handlers
		user.NewHandler,

		// Jobs
		jobs.NewOrphanScanJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
