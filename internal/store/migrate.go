package store

import (
	"bufio"
	"context"
	"database/sql"
	_ "embed"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Schema creates the contacts table. It works for MySQL and SQLite alike.
//
//go:embed schema.sql
var Schema string

// ExecScript executes an SQL script statement by statement. A statement ends on the line that
// contains a semicolon.
func ExecScript(ctx context.Context, db *sql.DB, script io.Reader) (int, error) {
	scanner := bufio.NewScanner(script)
	scanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	executed := 0
	for scanner.Scan() {
		line := scanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			statement := builder.String()
			if _, err := db.ExecContext(ctx, statement); err != nil {
				return executed, errors.Wrapf(err, "statement %d", executed+1)
			}
			executed++
			builder = strings.Builder{}
		}
	}
	return executed, errors.Wrap(scanner.Err(), "read script")
}

// Migrate creates the schema on db.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := ExecScript(ctx, db, strings.NewReader(Schema))
	return err
}
