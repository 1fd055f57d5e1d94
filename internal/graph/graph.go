// Package graph wraps the Neo4j driver behind a small query-running
// interface. Each call opens a short-lived session, runs one managed
// transaction and closes the session on every exit path.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/neoflix/neoflix-api/internal/config"
)

// Runner executes a single parameterized query inside a managed read or
// write transaction and returns one map per result record, keyed by the
// query's return aliases. Services hold a Runner, never the driver itself.
type Runner interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]interface{}) ([]map[string]interface{}, error)
	ExecuteWrite(ctx context.Context, cypher string, params map[string]interface{}) ([]map[string]interface{}, error)
}

// Driver implements Runner on top of neo4j.DriverWithContext. The handle is
// shared between services; Close belongs to whoever called Connect.
type Driver struct {
	drv      neo4j.DriverWithContext
	database string
}

// Connect creates the driver and verifies connectivity. Caller should call Close(ctx).
func Connect(ctx context.Context, cfg config.Neo4jConfig) (*Driver, error) {
	drv, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	vctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := drv.VerifyConnectivity(vctx); err != nil {
		_ = drv.Close(ctx)
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return &Driver{drv: drv, database: cfg.Database}, nil
}

func (d *Driver) Close(ctx context.Context) error {
	return d.drv.Close(ctx)
}

// Ping re-verifies connectivity, for readiness checks.
func (d *Driver) Ping(ctx context.Context) error {
	return d.drv.VerifyConnectivity(ctx)
}

func (d *Driver) ExecuteRead(ctx context.Context, cypher string, params map[string]interface{}) ([]map[string]interface{}, error) {
	return d.run(ctx, neo4j.AccessModeRead, cypher, params)
}

func (d *Driver) ExecuteWrite(ctx context.Context, cypher string, params map[string]interface{}) ([]map[string]interface{}, error) {
	return d.run(ctx, neo4j.AccessModeWrite, cypher, params)
}

func (d *Driver) run(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]interface{}) ([]map[string]interface{}, error) {
	session := d.drv.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: d.database,
	})
	defer func() { _ = session.Close(ctx) }()

	work := func(tx neo4j.ManagedTransaction) (interface{}, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]map[string]interface{}, 0, len(records))
		for _, record := range records {
			rows = append(rows, record.AsMap())
		}
		return rows, nil
	}

	var out interface{}
	var err error
	if mode == neo4j.AccessModeRead {
		out, err = session.ExecuteRead(ctx, work)
	} else {
		out, err = session.ExecuteWrite(ctx, work)
	}
	if err != nil {
		return nil, err
	}
	return out.([]map[string]interface{}), nil
}

// EnsureConstraints creates the uniqueness constraints the auth service
// relies on. Safe to run on every startup.
func (d *Driver) EnsureConstraints(ctx context.Context) error {
	statements := []string{
		"CREATE CONSTRAINT user_user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.userId IS UNIQUE",
		"CREATE CONSTRAINT user_email_unique IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE",
	}
	for _, stmt := range statements {
		if _, err := d.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure constraint: %w", err)
		}
	}
	return nil
}
