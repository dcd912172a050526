package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"staybook/config"
	"staybook/infras/postgres"
	"staybook/shared/constant"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	migrationsSource      = "file://migrations/postgres"
	defaultMigrationTable = "schema_migrations"
)

type Action string

const (
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionStepUp Action = "step-up"
	ActionDrop   Action = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

// ConnectionString targets the write database and records versions in the configured table.
func ConnectionString(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	table := cfg.DB.Postgres.MigrationTable
	if table == constant.Empty {
		table = defaultMigrationTable
	}

	dsn := postgres.DSN(write.Username, write.Password, write.Host, write.Port, postgres.DBName(*cfg, write.Name), write.SSLMode)

	return dsn + "&x-migrations-table=" + table
}

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationsSource, ConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(cfg *config.Config, action Action) error {
	run, ok := map[Action]func(*migrate.Migrate) error{
		ActionUp:     func(m *migrate.Migrate) error { return m.Up() },
		ActionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
		ActionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
		ActionDrop:   func(m *migrate.Migrate) error { return m.Down() },
	}[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed successfully")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, ActionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, ActionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, ActionDrop)
}
