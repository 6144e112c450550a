package postgres

import (
	"database/sql"
	"io/fs"
	"testing"
	"testing/fstest"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docengine/db/migrations"
)

// lazyDB never dials: goose only needs a handle to build the provider.
func lazyDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", "postgres://docengine@127.0.0.1:1/docengine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrationProvider_Ordered(t *testing.T) {
	fsys := fstest.MapFS{
		"00002_b.sql": {Data: []byte("-- +goose Up\nCREATE TABLE b ();\n-- +goose Down\nDROP TABLE b;\n")},
		"00001_a.sql": {Data: []byte("-- +goose Up\nCREATE TABLE a ();\n")},
	}

	p, err := NewMigrationProvider(lazyDB(t), fsys)
	require.NoError(t, err)

	sources := p.ListSources()
	require.Len(t, sources, 2)
	assert.Equal(t, int64(1), sources[0].Version)
	assert.Equal(t, "00001_a.sql", sources[0].Path)
	assert.Equal(t, int64(2), sources[1].Version)
}

func TestMigrationProvider_RejectsDuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"00001_a.sql": {Data: []byte("-- +goose Up\n")},
		"00001_b.sql": {Data: []byte("-- +goose Up\n")},
	}

	_, err := NewMigrationProvider(lazyDB(t), fsys)
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	p, err := NewMigrationProvider(lazyDB(t), migrations.FS)
	require.NoError(t, err)

	sources := p.ListSources()
	require.NotEmpty(t, sources)

	var all string
	for i, src := range sources {
		assert.Equal(t, int64(i+1), src.Version, "versions are contiguous")
		body, err := fs.ReadFile(migrations.FS, src.Path)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", src.Path)
		all += string(body)
	}
	for _, constraint := range []string{
		ConstraintDocumentNumber,
		ConstraintTemplateName,
		ConstraintTemplateDefault,
		ConstraintBankAccountNumber,
		ConstraintBankDefault,
		ConstraintUserEmail,
		ConstraintCompanyOwner,
	} {
		assert.Contains(t, all, constraint)
	}
}
