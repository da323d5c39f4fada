package store

import "context"

// Student is a row in the students table as exposed to the intent matcher.
type Student struct {
	Code       string
	Name       string
	ClassLevel string
	Department string
}

// Teacher is a row in the teachers table.
type Teacher struct {
	Name       string
	Department string
}

// Room is a row in the rooms table.
type Room struct {
	Name string
	Type string
}

// Row maps column names to scalar values.
type Row map[string]any

// ResultSet is the ordered output of an arbitrary read-only query.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Store provides read access to the college's operational data. Typed
// lookups serve the deterministic intent rules; Select executes
// model-synthesized retrieval statements.
type Store interface {
	CountStudents(ctx context.Context) (int, error)
	CountTeachers(ctx context.Context) (int, error)
	CountSubjects(ctx context.Context) (int, error)
	CountRooms(ctx context.Context) (int, error)
	CountDepartments(ctx context.Context) (int, error)
	CountScheduleEntries(ctx context.Context) (int, error)

	SearchStudents(ctx context.Context, name string, limit int) ([]Student, error)
	SearchTeachers(ctx context.Context, name string, limit int) ([]Teacher, error)
	ListDepartments(ctx context.Context, limit int) ([]string, error)
	ListRooms(ctx context.Context, limit int) ([]Room, error)

	Select(ctx context.Context, query string) (ResultSet, error)
	Close() error
}
