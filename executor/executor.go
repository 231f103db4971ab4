// Package executor runs parsed SQL statements against a database,
// implementing the heap-chain append algorithm tables use to grow across
// pages and the fixed SELECT * output format clients rely on.
package executor

import (
	"fmt"
	"strings"

	"github.com/mlopezgez/matidb/catalog"
	"github.com/mlopezgez/matidb/database"
	"github.com/mlopezgez/matidb/page"
	"github.com/mlopezgez/matidb/row"
	"github.com/mlopezgez/matidb/slotted"
	"github.com/mlopezgez/matidb/sqlfront"
)

// Execute runs one parsed statement against db and returns the textual
// result a client would see, or an error if the statement failed.
// Exactly one of stmt's fields is expected to be non-nil.
func Execute(db *database.Database, stmt *sqlfront.Statement) (string, error) {
	switch {
	case stmt.CreateTable != nil:
		return handleCreateTable(db, stmt.CreateTable)
	case stmt.Insert != nil:
		return handleInsert(db, stmt.Insert)
	case stmt.Select != nil:
		return handleSelect(db, stmt.Select)
	default:
		return "", fmt.Errorf("Unsupported statement")
	}
}

func handleCreateTable(db *database.Database, ct *sqlfront.CreateTable) (string, error) {
	if _, exists := db.Catalog.Tables[ct.Table]; exists {
		return "", fmt.Errorf("Table '%s' already exists", ct.Table)
	}

	schema := make([]catalog.Column, len(ct.Columns))
	for i, col := range ct.Columns {
		schema[i] = catalog.Column{
			Name: col.Name,
			Type: catalog.StringToDataType(col.Type),
		}
	}

	id, pg, err := db.Buffer.CreatePage()
	if err != nil {
		return "", fmt.Errorf("executor: create table %s: %w", ct.Table, err)
	}
	slotted.Wrap(pg).Init()

	db.Catalog.Tables[ct.Table] = &catalog.Table{
		Name:        ct.Table,
		Schema:      schema,
		FirstPageID: id,
		LastPageID:  id,
	}

	if err := db.Flush(); err != nil {
		return "", err
	}
	if err := db.SaveCatalog(); err != nil {
		return "", err
	}

	return fmt.Sprintf("Table '%s' created", ct.Table), nil
}

func handleInsert(db *database.Database, ins *sqlfront.Insert) (string, error) {
	table, ok := db.Catalog.Tables[ins.Table]
	if !ok {
		return "", fmt.Errorf("Table '%s' does not exist", ins.Table)
	}

	inserted := 0
	for _, valueRow := range ins.Rows {
		r := rowFromLiterals(valueRow.Values)
		lastPageID, err := insertTuple(db, table, r)
		if err != nil {
			return "", err
		}
		table.LastPageID = lastPageID
		inserted++
	}

	if err := db.Flush(); err != nil {
		return "", err
	}
	if err := db.SaveCatalog(); err != nil {
		return "", err
	}

	return fmt.Sprintf("Inserted %d row(s)", inserted), nil
}

func rowFromLiterals(lits []*sqlfront.Literal) row.Row {
	values := make([]row.Value, len(lits))
	for i, lit := range lits {
		switch {
		case lit.Number != nil:
			values[i] = row.LongValue(*lit.Number)
		case lit.String != nil:
			values[i] = row.TextValue(*lit.String)
		case lit.IsBool():
			values[i] = row.BoolValue(lit.BoolValue())
		}
	}
	return row.Row{Values: values}
}

// insertTuple walks the table's heap chain from its last known page
// forward to the true tail (the hint can be stale if a previous append
// allocated a new page without the caller observing it), appending a new
// page to the chain whenever the current tail is full.
func insertTuple(db *database.Database, table *catalog.Table, r row.Row) (page.ID, error) {
	encoded := r.Encode()

	currentID := table.LastPageID
	for {
		pg, err := db.Buffer.FetchPage(currentID)
		if err != nil {
			return 0, fmt.Errorf("executor: insert into %s: %w", table.Name, err)
		}
		sp := slotted.Wrap(pg)

		if _, err := sp.AddTuple(encoded); err == nil {
			return currentID, nil
		}

		if next := sp.NextPageID(); next != page.NoNextPage {
			currentID = next
			continue
		}

		newID, newPg, err := db.Buffer.CreatePage()
		if err != nil {
			return 0, fmt.Errorf("executor: insert into %s: %w", table.Name, err)
		}
		newSP := slotted.Wrap(newPg)
		newSP.Init()

		if _, err := newSP.AddTuple(encoded); err != nil {
			return 0, fmt.Errorf("Tuple too large for page: %s", table.Name)
		}

		// CreatePage may have evicted the old tail, so the handle held
		// above can be dead; re-fetch before patching its next link.
		pg, err = db.Buffer.FetchPage(currentID)
		if err != nil {
			return 0, fmt.Errorf("executor: insert into %s: %w", table.Name, err)
		}
		slotted.Wrap(pg).SetNextPageID(newID)
		return newID, nil
	}
}

func handleSelect(db *database.Database, sel *sqlfront.Select) (string, error) {
	table, ok := db.Catalog.Tables[sel.Table]
	if !ok {
		return "", fmt.Errorf("Table '%s' does not exist", sel.Table)
	}

	var rows []row.Row
	currentID := table.FirstPageID
	for {
		pg, err := db.Buffer.FetchPage(currentID)
		if err != nil {
			return "", fmt.Errorf("executor: select from %s: %w", table.Name, err)
		}
		sp := slotted.Wrap(pg)

		for i := uint16(0); i < sp.NumSlots(); i++ {
			data, ok := sp.GetTuple(i)
			if !ok {
				continue
			}
			r, err := row.Decode(data)
			if err != nil {
				return "", fmt.Errorf("executor: decode row in %s: %w", table.Name, err)
			}
			rows = append(rows, r)
		}

		next := sp.NextPageID()
		if next == page.NoNextPage {
			break
		}
		currentID = next
	}

	return formatSelect(table, rows), nil
}

func formatSelect(table *catalog.Table, rows []row.Row) string {
	headers := make([]string, len(table.Schema))
	for i, col := range table.Schema {
		headers[i] = col.Name
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(headers, "\t"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 10*len(headers)))
	sb.WriteString("\n")

	for _, r := range rows {
		values := make([]string, len(r.Values))
		for i, v := range r.Values {
			values[i] = formatValue(v)
		}
		sb.WriteString(strings.Join(values, "\t"))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "(%d rows)", len(rows))
	return sb.String()
}

func formatValue(v row.Value) string {
	switch v.Kind {
	case row.KindLong:
		return fmt.Sprintf("%d", v.Long)
	case row.KindBool:
		return fmt.Sprintf("%t", v.Bool)
	default:
		return v.Text
	}
}
