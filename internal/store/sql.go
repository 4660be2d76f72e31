package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
)

// likeEscape is the escape character for LIKE patterns. A backslash would need different
// quoting in MySQL and SQLite.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SQLStore keeps contacts in a SQL table named contacts.
type SQLStore struct {
	db *sqlx.DB

	// insert is a prepared statement for creating a contact.
	insert *sqlx.NamedStmt

	// selectWhereId is a prepared statement for selecting contacts with a given id.
	selectWhereId *sqlx.Stmt
}

// NewSQLStore wraps the sql database and prepares all statements. The database argument can be a
// real database for production use or a mock database within unit tests.
func NewSQLStore(sqlDB *sql.DB, driverName string) (*SQLStore, error) {
	s := &SQLStore{db: sqlx.NewDb(sqlDB, driverName)}

	var err error
	s.insert, err = s.db.PrepareNamed(`
		INSERT INTO contacts (id, firstname, lastname, dob, email, phone, address, city, state, zipcode)
		VALUES (:id, :firstname, :lastname, :dob, :email, :phone, :address, :city, :state, :zipcode)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare insert")
	}
	s.selectWhereId, err = s.db.Preparex(`
		SELECT * FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare select")
	}
	return s, nil
}

// whereClause builds the WHERE part shared by the count and the select statement.
func whereClause(q Query) (string, []interface{}) {
	active := q.activeFilters()
	if len(active) == 0 {
		return "", nil
	}
	var conditions []string
	var args []interface{}
	for _, filter := range active {
		col, _ := model.Column(filter[0])
		conditions = append(conditions, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%s'", col, likeEscape))
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(filter[1]))+"%")
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Find implements Store.
func (s *SQLStore) Find(ctx context.Context, q Query) ([]model.Contact, int, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}
	where, args := whereClause(q)

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM contacts"+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count contacts")
	}

	orderby := "id"
	if q.Sort != "" {
		orderby, _ = model.Column(q.Sort)
	}
	ascending := "ASC"
	if q.Descending {
		ascending = "DESC"
	}
	query := fmt.Sprintf("SELECT * FROM contacts%s ORDER BY %s %s", where, orderby, ascending)
	if q.Paginated() {
		limit, offset := q.Window()
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	contacts := []model.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "select contacts")
	}
	return contacts, total, nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, id int64) (model.Contact, error) {
	var contacts []model.Contact
	if err := s.selectWhereId.SelectContext(ctx, &contacts, id); err != nil {
		return model.Contact{}, errors.Wrapf(err, "select contact %d", id)
	}
	if len(contacts) == 0 {
		return model.Contact{}, ErrNotFound
	}
	return contacts[0], nil
}

// Update implements Store. Only the fields present on patch are written.
func (s *SQLStore) Update(ctx context.Context, id int64, patch model.Contact) (model.Contact, error) {
	var args []interface{}
	var assignments []string
	for _, field := range model.Fields {
		if patch.Has(field) {
			col, _ := model.Column(field)
			assignments = append(assignments, col+"=?")
			args = append(args, patch.Get(field))
		}
	}

	// It only makes sense to continue if we have at least one value to update.
	if len(args) == 0 {
		return model.Contact{}, errors.New("no values to be updated")
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx, "UPDATE contacts SET "+strings.Join(assignments, ", ")+" WHERE id=?", args...)
	if err != nil {
		return model.Contact{}, errors.Wrapf(err, "update contact %d", id)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Contact{}, errors.Wrapf(err, "update contact %d", id)
	}
	if rowsAffected == 0 {
		return model.Contact{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Insert implements Store.
func (s *SQLStore) Insert(ctx context.Context, contacts ...model.Contact) error {
	for i := range contacts {
		if _, err := s.insert.ExecContext(ctx, &contacts[i]); err != nil {
			return errors.Wrapf(err, "insert contact %d", contacts[i].Id)
		}
	}
	return nil
}

// Close releases the prepared statements and the database handle.
func (s *SQLStore) Close() error {
	s.insert.Close()
	s.selectWhereId.Close()
	return s.db.Close()
}
