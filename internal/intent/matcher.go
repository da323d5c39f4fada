package intent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nonthasen/campusdesk/internal/store"
)

const (
	searchRowCap = 10
	listRowCap   = 20
)

// rule pairs a predicate over the lowercased question with a responder.
// Rules are evaluated in declaration order; the first predicate hit whose
// responder produces text wins.
type rule struct {
	name    string
	match   func(q string) bool
	respond func(ctx context.Context, original string) (string, error)
}

// Matcher answers recognized question categories directly from the store,
// without model assistance.
type Matcher struct {
	store  store.Store
	logger *zap.Logger
	rules  []rule
}

func NewMatcher(st store.Store, logger *zap.Logger) *Matcher {
	m := &Matcher{store: st, logger: logger}
	m.rules = m.buildRules()
	return m
}

// Match resolves question against the rule table. It returns ok=false when
// no rule applies or when a storage fault occurred; faults are logged and
// never propagated so the caller can fall through to the model path.
func (m *Matcher) Match(ctx context.Context, question string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(question))

	for _, r := range m.rules {
		if !r.match(q) {
			continue
		}
		answer, err := r.respond(ctx, question)
		if err != nil {
			m.logger.Warn("intent rule degraded to no-match on storage fault",
				zap.String("rule", r.name), zap.Error(err))
			return "", false
		}
		if answer == "" {
			// Rule declined (e.g. no extractable search term); keep going.
			continue
		}
		return answer, true
	}
	return "", false
}

func containsAny(q string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// Quantity cue required alongside an entity keyword for count questions.
func quantityIntent(q string) bool {
	return containsAny(q, "กี่", "จำนวน", "ทั้งหมด")
}

func searchIntent(q string) bool {
	return containsAny(q, "ค้นหา", "หา", "ชื่อ")
}

// trailingTerm returns the text after the last search-intent keyword, so
// "ค้นหานักศึกษาชื่อ กิตติ" yields the name and not "นักศึกษาชื่อ กิตติ".
func trailingTerm(original string, keywords ...string) string {
	cut := -1
	for _, kw := range keywords {
		if idx := strings.LastIndex(original, kw); idx >= 0 && idx+len(kw) > cut {
			cut = idx + len(kw)
		}
	}
	if cut < 0 {
		return ""
	}
	return strings.TrimSpace(original[cut:])
}

func (m *Matcher) buildRules() []rule {
	static := func(answer string) func(context.Context, string) (string, error) {
		return func(context.Context, string) (string, error) { return answer, nil }
	}
	count := func(fn func(context.Context) (int, error), format string) func(context.Context, string) (string, error) {
		return func(ctx context.Context, _ string) (string, error) {
			n, err := fn(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(format, n), nil
		}
	}

	return []rule{
		{
			name:  "greeting",
			match: func(q string) bool { return containsAny(q, "สวัสดี", "หวัดดี", "hello", "hi") },
			respond: static("สวัสดีครับ! 🙏 ผมคือผู้ช่วยอัจฉริยะ พร้อมช่วยเหลือเรื่องข้อมูลวิทยาลัยครับ\n\n" +
				"ถามได้เลย เช่น:\n• มีนักศึกษากี่คน?\n• มีอาจารย์กี่คน?\n• มีวิชากี่วิชา?\n• ค้นหานักศึกษาชื่อ..."),
		},
		{
			name:    "identity",
			match:   func(q string) bool { return containsAny(q, "ชื่ออะไร", "คุณคือใคร") },
			respond: static("ผมคือ ผู้ช่วยอัจฉริยะ 🤖 ช่วยค้นหาข้อมูลนักศึกษา อาจารย์ วิชา และตารางสอนได้ครับ"),
		},
		{
			name:  "capability",
			match: func(q string) bool { return containsAny(q, "ช่วยอะไร", "ทำอะไรได้") },
			respond: static("ผมช่วยได้หลายอย่างครับ:\n• นับจำนวนนักศึกษา อาจารย์ วิชา\n" +
				"• ค้นหาข้อมูลตามชื่อ\n• ดูข้อมูลห้องเรียน แผนก\n\nลองถามได้เลยครับ! 😊"),
		},
		{
			name:    "gratitude",
			match:   func(q string) bool { return containsAny(q, "ขอบคุณ", "thanks") },
			respond: static("ยินดีครับ! 😊 มีอะไรให้ช่วยอีกไหมครับ?"),
		},
		{
			name:    "count-students",
			match:   func(q string) bool { return strings.Contains(q, "นักศึกษา") && quantityIntent(q) },
			respond: count(m.store.CountStudents, "📚 มีนักศึกษาทั้งหมด %d คนครับ"),
		},
		{
			name:    "count-teachers",
			match:   func(q string) bool { return strings.Contains(q, "อาจารย์") && quantityIntent(q) },
			respond: count(m.store.CountTeachers, "👨‍🏫 มีอาจารย์ทั้งหมด %d คนครับ"),
		},
		{
			name:    "count-subjects",
			match:   func(q string) bool { return strings.Contains(q, "วิชา") && quantityIntent(q) },
			respond: count(m.store.CountSubjects, "📖 มีวิชาทั้งหมด %d วิชาครับ"),
		},
		{
			name:    "count-rooms",
			match:   func(q string) bool { return strings.Contains(q, "ห้อง") && quantityIntent(q) },
			respond: count(m.store.CountRooms, "🏫 มีห้องเรียนทั้งหมด %d ห้องครับ"),
		},
		{
			name:    "count-departments",
			match:   func(q string) bool { return strings.Contains(q, "แผนก") && quantityIntent(q) },
			respond: count(m.store.CountDepartments, "🏢 มีแผนกทั้งหมด %d แผนกครับ"),
		},
		{
			name:    "count-schedule",
			match:   func(q string) bool { return strings.Contains(q, "ตาราง") && containsAny(q, "กี่", "จำนวน") },
			respond: count(m.store.CountScheduleEntries, "📅 มีรายการตารางสอนทั้งหมด %d รายการครับ"),
		},
		{
			name:    "search-students",
			match:   func(q string) bool { return strings.Contains(q, "นักศึกษา") && searchIntent(q) },
			respond: m.searchStudents,
		},
		{
			name:    "search-teachers",
			match:   func(q string) bool { return strings.Contains(q, "อาจารย์") && searchIntent(q) },
			respond: m.searchTeachers,
		},
		{
			name: "list-departments",
			match: func(q string) bool {
				return strings.Contains(q, "แผนก") && containsAny(q, "อะไรบ้าง", "มีอะไร", "รายชื่อ", "ทั้งหมด")
			},
			respond: m.listDepartments,
		},
		{
			name: "list-rooms",
			match: func(q string) bool {
				return strings.Contains(q, "ห้อง") && containsAny(q, "อะไรบ้าง", "มีอะไร", "รายชื่อ")
			},
			respond: m.listRooms,
		},
	}
}

func (m *Matcher) searchStudents(ctx context.Context, original string) (string, error) {
	term := trailingTerm(original, "ชื่อ", "หา", "ค้นหา")
	term = strings.TrimSpace(strings.ReplaceAll(term, "นักศึกษา", ""))
	if term == "" {
		return "", nil
	}

	students, err := m.store.SearchStudents(ctx, term, searchRowCap)
	if err != nil {
		return "", err
	}
	if len(students) == 0 {
		return fmt.Sprintf("ไม่พบนักศึกษาชื่อ %q ครับ", term), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 พบนักศึกษา %d คน:", len(students))
	for _, st := range students {
		dept := st.Department
		if dept == "" {
			dept = "ไม่ระบุแผนก"
		}
		fmt.Fprintf(&b, "\n• %s (%s) - %s", st.Name, st.Code, dept)
	}
	return b.String(), nil
}

func (m *Matcher) searchTeachers(ctx context.Context, original string) (string, error) {
	term := trailingTerm(original, "ชื่อ", "หา", "ค้นหา", "อาจารย์")
	term = strings.TrimSpace(strings.ReplaceAll(term, "อาจารย์", ""))
	if term == "" {
		return "", nil
	}

	teachers, err := m.store.SearchTeachers(ctx, term, searchRowCap)
	if err != nil {
		return "", err
	}
	if len(teachers) == 0 {
		return fmt.Sprintf("ไม่พบอาจารย์ชื่อ %q ครับ", term), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 พบอาจารย์ %d คน:", len(teachers))
	for _, tc := range teachers {
		dept := tc.Department
		if dept == "" {
			dept = "ไม่ระบุแผนก"
		}
		fmt.Fprintf(&b, "\n• %s - %s", tc.Name, dept)
	}
	return b.String(), nil
}

func (m *Matcher) listDepartments(ctx context.Context, _ string) (string, error) {
	departments, err := m.store.ListDepartments(ctx, listRowCap)
	if err != nil {
		return "", err
	}
	if len(departments) == 0 {
		return "ยังไม่มีข้อมูลแผนกในระบบครับ", nil
	}

	var b strings.Builder
	b.WriteString("🏢 รายชื่อแผนก:")
	for i, name := range departments {
		fmt.Fprintf(&b, "\n%d. %s", i+1, name)
	}
	return b.String(), nil
}

func (m *Matcher) listRooms(ctx context.Context, _ string) (string, error) {
	rooms, err := m.store.ListRooms(ctx, listRowCap)
	if err != nil {
		return "", err
	}
	if len(rooms) == 0 {
		return "ยังไม่มีข้อมูลห้องเรียนในระบบครับ", nil
	}

	var b strings.Builder
	b.WriteString("🏫 รายชื่อห้องเรียน:")
	for i, r := range rooms {
		roomType := r.Type
		if roomType == "" {
			roomType = "ทั่วไป"
		}
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, r.Name, roomType)
	}
	return b.String(), nil
}
