package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlopezgez/matidb/catalog"
	"github.com/mlopezgez/matidb/slotted"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path, 8)
	require.NoError(t, err)
	defer db.Close()

	require.Empty(t, db.Catalog.Tables)
}

func TestPageBytesSurviveCloseAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path, 8)
	require.NoError(t, err)

	id, pg, err := db.Buffer.CreatePage()
	require.NoError(t, err)
	for i := range pg.Data {
		pg.Data[i] = byte(i % 251)
	}
	require.NoError(t, db.Close())

	db2, err := Open(path, 8)
	require.NoError(t, err)
	defer db2.Close()

	got, err := db2.Buffer.FetchPage(id)
	require.NoError(t, err)
	for i := range got.Data {
		require.Equal(t, byte(i%251), got.Data[i], "byte %d", i)
	}
}

func TestCatalogSurvivesCloseAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path, 8)
	require.NoError(t, err)

	id, pg, err := db.Buffer.CreatePage()
	require.NoError(t, err)
	slotted.Wrap(pg).Init()
	db.Catalog.Tables["t"] = &catalog.Table{
		Name:        "t",
		Schema:      []catalog.Column{{Name: "x", Type: catalog.TypeLong}},
		FirstPageID: id,
		LastPageID:  id,
	}
	require.NoError(t, db.Close())

	db2, err := Open(path, 8)
	require.NoError(t, err)
	defer db2.Close()

	require.Contains(t, db2.Catalog.Tables, "t")
	require.Equal(t, id, db2.Catalog.Tables["t"].FirstPageID)
}

func TestOpenWithGarbageCatalogStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	require.NoError(t, os.WriteFile(path+".catalog", []byte("###not a catalog###\n"), 0o644))

	db, err := Open(path, 8)
	require.NoError(t, err)
	defer db.Close()
	require.Empty(t, db.Catalog.Tables)
}
