package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the embedded backend for local/dev use and tests. It keeps
// the same schema as the Postgres store in a pure-Go SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// In-memory databases vanish when their sole connection closes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS departments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS teachers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			department TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS subjects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			credit INTEGER,
			theory_hours INTEGER,
			practice_hours INTEGER,
			teacher_id INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			type TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS class_levels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS schedule (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			term TEXT,
			day_of_week TEXT,
			start_period INTEGER,
			end_period INTEGER,
			subject_id INTEGER,
			teacher_id INTEGER,
			room_id INTEGER,
			class_level TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS students (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			class_level TEXT,
			department TEXT
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// Exec runs a write statement. It exists for seeding the embedded store; the
// query pipeline never reaches it.
func (s *SQLiteStore) Exec(ctx context.Context, stmt string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func (s *SQLiteStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) CountStudents(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM students`)
}

func (s *SQLiteStore) CountTeachers(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM teachers`)
}

func (s *SQLiteStore) CountSubjects(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM subjects`)
}

func (s *SQLiteStore) CountRooms(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM rooms`)
}

func (s *SQLiteStore) CountDepartments(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM departments`)
}

func (s *SQLiteStore) CountScheduleEntries(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM schedule`)
}

func (s *SQLiteStore) SearchStudents(ctx context.Context, name string, limit int) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, COALESCE(class_level, ''), COALESCE(department, '')
		 FROM students WHERE name LIKE '%' || ? || '%' ORDER BY name LIMIT ?`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.Code, &st.Name, &st.ClassLevel, &st.Department); err != nil {
			return nil, fmt.Errorf("scan student row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SearchTeachers(ctx context.Context, name string, limit int) ([]Teacher, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, COALESCE(department, '')
		 FROM teachers WHERE name LIKE '%' || ? || '%' ORDER BY name LIMIT ?`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search teachers: %w", err)
	}
	defer rows.Close()

	var out []Teacher
	for rows.Next() {
		var tc Teacher
		if err := rows.Scan(&tc.Name, &tc.Department); err != nil {
			return nil, fmt.Errorf("scan teacher row: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListDepartments(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM departments ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan department row: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListRooms(ctx context.Context, limit int) ([]Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, COALESCE(type, '') FROM rooms ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.Name, &r.Type); err != nil {
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Select(ctx context.Context, query string) (ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return ResultSet{}, fmt.Errorf("select query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return ResultSet{}, fmt.Errorf("read columns: %w", err)
	}

	rs := ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return ResultSet{}, fmt.Errorf("scan result row: %w", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return ResultSet{}, fmt.Errorf("iterate result rows: %w", err)
	}
	return rs, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
