package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/uniport/campus-api/internal/bootstrap"
)

// connectInfra wires up the database, the optional lookup cache, and the
// service graph for a command run.
func connectInfra(cmdCtx *commandContext) (*bootstrap.Services, func(), error) {
	db, err := bootstrap.ConnectDB(cmdCtx.Config.Postgres, cmdCtx.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}

	redisClient, err := bootstrap.ConnectRedis(cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close db: %w", closeErr))
		}
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cmdCtx.Config,
		DB:          db,
		RedisClient: redisClient,
		Logger:      cmdCtx.Logger,
	})

	cleanup := func() {
		if cerr := closeInfra(db, redisClient); cerr != nil {
			cmdCtx.Logger.Warn("close infra failed", "error", cerr)
		}
	}
	return services, cleanup, nil
}

// connectServicesOnly builds the service graph without a database, for
// commands that only talk to the directory.
func connectServicesOnly(cmdCtx *commandContext) *bootstrap.Services {
	return bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cmdCtx.Config,
		Logger: cmdCtx.Logger,
	})
}

func closeInfra(db *sql.DB, redisClient redis.UniversalClient) error {
	var closeErr error
	if db != nil {
		if err := db.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}
