package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Applying real migrations needs a database; only argument validation is
// testable here.
func TestRunMigrations_InputValidation(t *testing.T) {
	t.Run("EmptyDatabaseURL", func(t *testing.T) {
		err := RunMigrations("", "migrations/postgres")
		assert.EqualError(t, err, "database URL cannot be empty")
	})

	t.Run("EmptyMigrationsPath", func(t *testing.T) {
		err := RunMigrations("postgres://localhost/ledger", "")
		assert.EqualError(t, err, "migrations path cannot be empty")
	})
}
