package store

import (
	"context"
	"testing"
)

func newSeededStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()
	s, err := NewSQLiteStore(ctx, ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	seed := []struct {
		stmt string
		args []any
	}{
		{`INSERT INTO departments (name) VALUES (?)`, []any{"ช่างยนต์"}},
		{`INSERT INTO departments (name) VALUES (?)`, []any{"คอมพิวเตอร์ธุรกิจ"}},
		{`INSERT INTO teachers (name, department) VALUES (?, ?)`, []any{"สมชาย ใจดี", "ช่างยนต์"}},
		{`INSERT INTO teachers (name, department) VALUES (?, ?)`, []any{"สมหญิง รักเรียน", "คอมพิวเตอร์ธุรกิจ"}},
		{`INSERT INTO students (code, name, class_level, department) VALUES (?, ?, ?, ?)`,
			[]any{"65001", "กิตติพงษ์ สายทอง", "ปวช.1", "ช่างยนต์"}},
		{`INSERT INTO students (code, name, class_level, department) VALUES (?, ?, ?, ?)`,
			[]any{"65002", "กิตติมา วงศ์ใหญ่", "ปวช.2", "คอมพิวเตอร์ธุรกิจ"}},
		{`INSERT INTO rooms (name, type) VALUES (?, ?)`, []any{"อาคาร 1 ห้อง 101", "บรรยาย"}},
		{`INSERT INTO rooms (name, type) VALUES (?, ?)`, []any{"อาคาร 2 ห้อง 201", ""}},
		{`INSERT INTO schedule (term, day_of_week, subject_id, teacher_id, room_id) VALUES (?, ?, ?, ?, ?)`,
			[]any{"1/2567", "วันจันทร์", 1, 1, 1}},
	}
	for _, row := range seed {
		if err := s.Exec(ctx, row.stmt, row.args...); err != nil {
			t.Fatalf("seed %q error = %v", row.stmt, err)
		}
	}
	return s
}

func TestCounts(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		fn   func(context.Context) (int, error)
		want int
	}{
		{"students", s.CountStudents, 2},
		{"teachers", s.CountTeachers, 2},
		{"subjects", s.CountSubjects, 0},
		{"rooms", s.CountRooms, 2},
		{"departments", s.CountDepartments, 2},
		{"schedule", s.CountScheduleEntries, 1},
	}
	for _, tc := range cases {
		got, err := tc.fn(ctx)
		if err != nil {
			t.Fatalf("count %s error = %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("count %s = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSearchStudentsSubstring(t *testing.T) {
	s := newSeededStore(t)

	students, err := s.SearchStudents(context.Background(), "กิตติ", 10)
	if err != nil {
		t.Fatalf("SearchStudents() error = %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("SearchStudents() returned %d rows, want 2", len(students))
	}
	if students[0].Code == "" || students[0].Department == "" {
		t.Fatalf("SearchStudents() row missing fields: %+v", students[0])
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		if err := s.Exec(ctx,
			`INSERT INTO students (code, name, class_level, department) VALUES (?, ?, ?, ?)`,
			"66000", "นักเรียนทดสอบ", "ปวช.1", "ช่างยนต์"); err != nil {
			t.Fatalf("seed error = %v", err)
		}
	}

	students, err := s.SearchStudents(ctx, "ทดสอบ", 10)
	if err != nil {
		t.Fatalf("SearchStudents() error = %v", err)
	}
	if len(students) != 10 {
		t.Fatalf("SearchStudents() returned %d rows, want capped 10", len(students))
	}
}

func TestListRoomsAndDepartments(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	depts, err := s.ListDepartments(ctx, 20)
	if err != nil {
		t.Fatalf("ListDepartments() error = %v", err)
	}
	if len(depts) != 2 || depts[0] != "ช่างยนต์" {
		t.Fatalf("ListDepartments() = %v, want insertion order starting with ช่างยนต์", depts)
	}

	rooms, err := s.ListRooms(ctx, 20)
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("ListRooms() returned %d rows, want 2", len(rooms))
	}
}

func TestSelectReturnsColumnsAndRows(t *testing.T) {
	s := newSeededStore(t)

	rs, err := s.Select(context.Background(),
		`SELECT s.name, s.department FROM students s ORDER BY s.code`)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(rs.Columns) != 2 || rs.Columns[0] != "name" {
		t.Fatalf("Select() columns = %v, want [name department]", rs.Columns)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("Select() returned %d rows, want 2", len(rs.Rows))
	}
	if rs.Rows[0]["name"] != "กิตติพงษ์ สายทอง" {
		t.Fatalf("Select() first row name = %v", rs.Rows[0]["name"])
	}
}

func TestSelectSyntaxErrorSurfaces(t *testing.T) {
	s := newSeededStore(t)
	if _, err := s.Select(context.Background(), `SELECT FROM WHERE`); err == nil {
		t.Fatalf("Select() with malformed query succeeded, want error")
	}
}
