// Package sqlfront parses the small SQL subset MatiDB understands —
// CREATE TABLE, INSERT INTO ... VALUES, and SELECT * FROM — into an AST
// the executor package can walk. It plays the role of an off-the-shelf
// SQL front end rather than a hand-rolled string splitter, built on
// participle's parser-generator.
package sqlfront

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ColumnDef is one column declaration in a CREATE TABLE statement.
type ColumnDef struct {
	Name string `@Ident`
	Type string `@Ident`
}

// CreateTable is a parsed `CREATE TABLE name (col type, ...)` statement.
type CreateTable struct {
	Table   string       `"CREATE" "TABLE" @Ident`
	Columns []*ColumnDef `"(" @@ ("," @@)* ")"`
}

// Literal is a single value expression: a number, a quoted string, or a
// boolean keyword.
type Literal struct {
	Number *int64  `  @Int`
	String *string `| @String`
	Bool   *string `| @("TRUE" | "FALSE")`
}

// IsBool reports whether this literal parsed as TRUE/FALSE.
func (l *Literal) IsBool() bool { return l.Bool != nil }

// BoolValue returns the literal's truth value. Only meaningful when
// IsBool reports true.
func (l *Literal) BoolValue() bool {
	return l.Bool != nil && strings.EqualFold(*l.Bool, "TRUE")
}

// ValueRow is one parenthesized tuple of literals in a VALUES clause.
type ValueRow struct {
	Values []*Literal `"(" @@ ("," @@)* ")"`
}

// Insert is a parsed `INSERT INTO name VALUES (...), (...)` statement.
type Insert struct {
	Table string      `"INSERT" "INTO" @Ident`
	Rows  []*ValueRow `"VALUES" @@ ("," @@)*`
}

// Select is a parsed `SELECT * FROM name` statement. MatiDB supports no
// other projection or clause.
type Select struct {
	Table string `"SELECT" "*" "FROM" @Ident`
}

// Statement is one parsed SQL statement, exactly one of whose fields is
// non-nil.
type Statement struct {
	CreateTable *CreateTable `  @@`
	Insert      *Insert      `| @@`
	Select      *Select      `| @@`
}

// Submission is a semicolon-separated sequence of statements, the unit
// the line protocol and REPL hand to the parser for one line of input.
type Submission struct {
	Statements []*Statement `@@ (";" @@)* ";"?`
}

var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),;*]`},
})

var parser = participle.MustBuild[Submission](
	participle.Lexer(sqlLexer),
	participle.Unquote("String"),
	participle.CaseInsensitive("Ident"),
	participle.Elide("Whitespace"),
)

// Parse parses a raw line of SQL text, which may contain one or more
// ;-separated statements, into a Submission.
func Parse(sql string) (*Submission, error) {
	sub, err := parser.ParseString("", sql)
	if err != nil {
		return nil, fmt.Errorf("sqlfront: %w", err)
	}
	return sub, nil
}
