package managers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"foodconnect/internal/interfaces"
)

// DatabaseMgr gives access to the connection pool backing the Postgres stores.
type DatabaseMgr interface {
	GetPool() interfaces.PgxPoolIface
	Ping(ctx context.Context) error
}

// DatabaseManager is responsible for managing the database connection pool.
// Pool is nil when the in-memory store is used.
type DatabaseManager struct {
	Pool interfaces.PgxPoolIface
}

func (dbMgr *DatabaseManager) GetPool() interfaces.PgxPoolIface {
	return dbMgr.Pool
}

// Ping checks that the database answers. Without a pool there is nothing to check.
func (dbMgr *DatabaseManager) Ping(ctx context.Context) error {
	if dbMgr.Pool == nil {
		return nil
	}
	return dbMgr.Pool.Ping(ctx)
}

// NewDatabaseManager creates a DatabaseManager for the given pool.
func NewDatabaseManager(pool interfaces.PgxPoolIface) DatabaseMgr {
	log.Info("Initializing database manager")
	return &DatabaseManager{Pool: pool}
}
