// Package catalog persists table schemas and heap-chain bounds to a
// plain-text sidecar file alongside the database file.
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mlopezgez/matidb/page"
	"github.com/mlopezgez/matidb/row"
)

// DataType is a column's declared type, one of the subset row.Value
// understands.
type DataType int

const (
	TypeLong DataType = iota
	TypeText
	TypeBool
)

// Column is one entry in a table's schema.
type Column struct {
	Name string
	Type DataType
}

// Table holds everything the catalog tracks about one table: its schema
// and the bounds of its heap chain in the database file.
type Table struct {
	Name        string
	Schema      []Column
	FirstPageID page.ID
	LastPageID  page.ID
}

// Catalog maps table name to Table, loaded from and saved to a
// line-oriented sidecar file.
type Catalog struct {
	Tables map[string]*Table
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{Tables: make(map[string]*Table)}
}

// DataTypeToString renders t as the keyword stored in the catalog file.
func DataTypeToString(t DataType) string {
	switch t {
	case TypeLong:
		return "INTEGER"
	case TypeBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// StringToDataType parses a catalog type keyword, defaulting to TypeText
// for anything unrecognized.
func StringToDataType(s string) DataType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INTEGER", "BIGINT", "SMALLINT":
		return TypeLong
	case "BOOLEAN":
		return TypeBool
	case "TEXT", "VARCHAR", "CHAR", "STRING":
		return TypeText
	default:
		return TypeText
	}
}

// ValueKind returns the row.ValueKind a column of this type stores.
func (t DataType) ValueKind() row.ValueKind {
	switch t {
	case TypeLong:
		return row.KindLong
	case TypeBool:
		return row.KindBool
	default:
		return row.KindText
	}
}

// Load reads the catalog sidecar at path into a new Catalog. A
// missing file is treated as an empty catalog, not an error. Lines that
// don't match the expected format are skipped silently, so a partially
// corrupted file still yields whatever tables could be parsed.
func Load(path string) (*Catalog, error) {
	c := New()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var current *Table
	var remainingCols int

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "  ") {
			if current == nil || remainingCols <= 0 {
				continue
			}
			parts := strings.SplitN(strings.TrimSpace(line), "|", 2)
			if len(parts) != 2 {
				continue
			}
			current.Schema = append(current.Schema, Column{
				Name: parts[0],
				Type: StringToDataType(parts[1]),
			})
			remainingCols--
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) != 4 {
			continue
		}
		first, err1 := strconv.ParseUint(fields[1], 10, 32)
		last, err2 := strconv.ParseUint(fields[2], 10, 32)
		numCols, err3 := strconv.Atoi(fields[3])
		if err1 != nil || err2 != nil || err3 != nil || numCols < 0 {
			continue
		}

		current = &Table{
			Name:        fields[0],
			FirstPageID: page.ID(first),
			LastPageID:  page.ID(last),
		}
		remainingCols = numCols
		c.Tables[current.Name] = current
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path in full, overwriting any previous contents.
func Save(path string, c *Catalog) error {
	var sb strings.Builder
	for _, t := range c.Tables {
		fmt.Fprintf(&sb, "%s|%d|%d|%d\n", t.Name, t.FirstPageID, t.LastPageID, len(t.Schema))
		for _, col := range t.Schema {
			fmt.Fprintf(&sb, "  %s|%s\n", col.Name, DataTypeToString(col.Type))
		}
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", path, err)
	}
	return nil
}
