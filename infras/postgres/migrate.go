package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"purohit/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStepUp Direction = "step-up"
	DirectionDrop   Direction = "drop"
)

// ErrUnknownDirection is returned for anything but the four directions above.
var ErrUnknownDirection = errors.New("unknown migration direction")

// migrationURL targets the write database and names the migrations table.
func migrationURL(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	url := endpoint{
		username: write.Username,
		password: write.Password,
		host:     write.Host,
		port:     write.Port,
		dbName:   getDBName(*cfg, write.Name),
		sslMode:  write.SSLMode,
	}.descriptor()

	if table := cfg.DB.Postgres.MigrationTable; table != "" {
		url += "&x-migrations-table=" + table
	}

	return url
}

// Migrate applies the schema under migrations/postgres in the given
// direction. Having nothing to do is not an error.
func Migrate(cfg *config.Config, direction Direction) error {
	mig, err := migrate.New(migrationSource, migrationURL(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	switch direction {
	case DirectionUp:
		err = mig.Up()
	case DirectionDown:
		err = mig.Steps(-1)
	case DirectionStepUp:
		err = mig.Steps(1)
	case DirectionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDirection, direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations (%s): %w", direction, err)
	}

	version, dirty, _ := mig.Version()

	log.Info().Str("direction", string(direction)).Uint("version", version).Bool("dirty", dirty).Msg("Database migrations completed")

	return nil
}
