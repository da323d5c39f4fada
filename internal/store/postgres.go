package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore serves the college schema from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS departments (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS teachers (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			department TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS subjects (
			id SERIAL PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			credit INT,
			theory_hours INT,
			practice_hours INT,
			teacher_id INT
		);`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS class_levels (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS schedule (
			id SERIAL PRIMARY KEY,
			term TEXT,
			day_of_week TEXT,
			start_period INT,
			end_period INT,
			subject_id INT,
			teacher_id INT,
			room_id INT,
			class_level TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS students (
			id SERIAL PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			class_level TEXT,
			department TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_students_name ON students (name);`,
		`CREATE INDEX IF NOT EXISTS idx_teachers_name ON teachers (name);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountStudents(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM students`)
}

func (s *PostgresStore) CountTeachers(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM teachers`)
}

func (s *PostgresStore) CountSubjects(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM subjects`)
}

func (s *PostgresStore) CountRooms(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM rooms`)
}

func (s *PostgresStore) CountDepartments(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM departments`)
}

func (s *PostgresStore) CountScheduleEntries(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM schedule`)
}

func (s *PostgresStore) SearchStudents(ctx context.Context, name string, limit int) ([]Student, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT code, name, COALESCE(class_level, ''), COALESCE(department, '')
		 FROM students WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2`,
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SearchTeachers(ctx context.Context, name string, limit int) ([]Teacher, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, COALESCE(department, '')
		 FROM teachers WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2`,
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teacher rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListDepartments(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM departments ORDER BY id LIMIT $1`, limit)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListRooms(ctx context.Context, limit int) ([]Room, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, COALESCE(type, '') FROM rooms ORDER BY id LIMIT $1`, limit)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room rows: %w", err)
	}
	return out, nil
}

// Select runs an arbitrary retrieval statement. Callers must gate the
// statement through the pipeline's authorization check first; the store
// connection should additionally use a read-only credential.
func (s *PostgresStore) Select(ctx context.Context, query string) (ResultSet, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return ResultSet{}, fmt.Errorf("select query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	rs := ResultSet{Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return ResultSet{}, fmt.Errorf("read row values: %w", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return ResultSet{}, fmt.Errorf("iterate result rows: %w", err)
	}
	return rs, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
