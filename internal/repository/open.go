package repository

import (
	"context"
	"fmt"

	"github.com/anandology/stringart.in/internal/config"
)

// Open connects the backend selected by cfg.Driver and migrates it.
func Open(ctx context.Context, cfg config.StoreConfig) (OrderRepository, error) {
	creds := &Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}

	var (
		repo OrderRepository
		err  error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		repo, err = NewSQLiteRepository(cfg.SQLitePath)
	case config.DriverPostgres:
		repo, err = NewPostgresRepository(creds)
	case config.DriverMongo:
		client, connErr := ConnectMongoDB(ctx, cfg.MongoURI)
		if connErr != nil {
			return nil, connErr
		}
		repo = NewMongoRepository(client, cfg.MongoDBName)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.RunMigrations(creds); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}
