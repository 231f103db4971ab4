// Package database ties together the disk manager, buffer pool, and
// catalog into the single aggregate the executor and server operate on.
package database

import (
	"fmt"

	"github.com/mlopezgez/matidb/buffer"
	"github.com/mlopezgez/matidb/catalog"
	"github.com/mlopezgez/matidb/disk"
	log "github.com/sirupsen/logrus"
)

// Database is the storage engine's single point of entry: one disk
// file, one buffer pool in front of it, and the catalog describing the
// tables stored in it.
type Database struct {
	Disk        *disk.Manager
	Buffer      *buffer.Pool
	Catalog     *catalog.Catalog
	catalogPath string
}

// Open opens (or creates) the database file at path and loads its
// catalog sidecar (path + ".catalog"). A missing catalog yields an
// empty one. An unreadable catalog is not fatal either: Open logs a
// warning and continues with an empty catalog.
func Open(path string, bufferCapacity int) (*Database, error) {
	dm, err := disk.Open(path)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", path, err)
	}

	catalogPath := path + ".catalog"
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		log.WithFields(log.Fields{"catalog_path": catalogPath, "error": err}).
			Warn("database: failed to load catalog, starting with an empty one")
		cat = catalog.New()
	}

	return &Database{
		Disk:        dm,
		Buffer:      buffer.New(dm, bufferCapacity),
		Catalog:     cat,
		catalogPath: catalogPath,
	}, nil
}

// SaveCatalog persists the in-memory catalog to its sidecar file.
func (db *Database) SaveCatalog() error {
	if err := catalog.Save(db.catalogPath, db.Catalog); err != nil {
		return fmt.Errorf("database: save catalog: %w", err)
	}
	return nil
}

// Flush writes every cached page back to disk.
func (db *Database) Flush() error {
	if err := db.Buffer.FlushAll(); err != nil {
		return fmt.Errorf("database: flush: %w", err)
	}
	return nil
}

// Close flushes all pages, saves the catalog, and closes the underlying
// file handle. Pages that were never flushed are lost if the process
// exits without Close (or Flush) having run.
func (db *Database) Close() error {
	if err := db.Flush(); err != nil {
		return err
	}
	if err := db.SaveCatalog(); err != nil {
		return err
	}
	if err := db.Disk.Close(); err != nil {
		return fmt.Errorf("database: close: %w", err)
	}
	return nil
}
