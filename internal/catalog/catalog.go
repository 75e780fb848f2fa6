// Package catalog turns platform listings into searchable rows.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/search"
)

// Kind names a listing.
type Kind string

const (
	Courses Kind = "courses"
	Tests   Kind = "tests"
	Users   Kind = "users"
	Groups  Kind = "groups"

	// Teacher panel listings, scoped to what the caller teaches.
	MyCourses Kind = "my-courses"
	MyTests   Kind = "my-tests"
	Questions Kind = "questions"
	MyGroups  Kind = "my-groups"
	Students  Kind = "students"
)

// Kinds lists every Kind in display order.
var Kinds = []Kind{Courses, Tests, Users, Groups, MyCourses, MyTests, Questions, MyGroups, Students}

// ParseKind accepts a kind name, singular or plural.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !strings.HasSuffix(string(k), "s") {
		k += "s"
	}
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, known := range Kinds {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown listing %q (want one of %s)", s, strings.Join(names, ", "))
}

// Title returns a display name.
func (k Kind) Title() string {
	switch k {
	case MyCourses:
		return "My courses"
	case MyTests:
		return "My tests"
	case MyGroups:
		return "My groups"
	case "":
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Noun returns the plural noun for the records of a listing.
func (k Kind) Noun() string {
	return strings.TrimPrefix(string(k), "my-")
}

// AdminOnly reports whether the backend restricts the listing to admins.
func (k Kind) AdminOnly() bool { return k == Users || k == Groups }

// StaffOnly reports whether the listing belongs to the teacher panel.
func (k Kind) StaffOnly() bool {
	switch k {
	case MyCourses, MyTests, Questions, MyGroups, Students:
		return true
	}
	return false
}

// Parent names the record a listing is scoped to, or "" when it stands
// alone.
func (k Kind) Parent() string {
	switch k {
	case Tests:
		return "course"
	case Questions:
		return "test"
	case Students:
		return "group"
	}
	return ""
}

// Headers returns the column headers for the kind.
func (k Kind) Headers() []string {
	switch k {
	case Courses:
		return []string{"ID", "Title", "Description", "Tests"}
	case Tests:
		return []string{"ID", "Title", "Questions"}
	case Users:
		return []string{"ID", "Email", "Name", "Role", "Active"}
	case Groups, MyGroups:
		return []string{"ID", "Name", "Teacher"}
	case MyCourses:
		return []string{"ID", "Title", "Description"}
	case MyTests:
		return []string{"ID", "Title", "Description", "Course"}
	case Questions:
		return []string{"ID", "Question", "Type", "Answer"}
	case Students:
		return []string{"ID", "Email", "Name"}
	}
	return nil
}

// Row is one listed record. Fields are matched by search, the first being
// the primary field; Columns are displayed.
type Row struct {
	ID       api.ID
	CourseID api.ID
	Fields   []string
	Columns  []string
}

// RowFields is the field extractor for search.New.
func RowFields(r Row) []string { return r.Fields }

// NewSearcher snapshots rows for searching.
func NewSearcher(rows []Row) *search.Searcher[Row] {
	return search.New(rows, RowFields)
}

// Lister is the part of the API client that lists records.
type Lister interface {
	Courses(ctx context.Context) ([]api.Course, error)
	CourseTests(ctx context.Context, courseID api.ID) ([]api.TestInfo, error)
	Users(ctx context.Context) ([]api.User, error)
	Groups(ctx context.Context) ([]api.Group, error)

	TeacherCourses(ctx context.Context) ([]api.TeacherCourse, error)
	TeacherTests(ctx context.Context) ([]api.TeacherTest, error)
	TeacherQuestions(ctx context.Context, testID api.ID) ([]api.Question, error)
	TeacherGroups(ctx context.Context) ([]api.Group, error)
	TeacherGroup(ctx context.Context, groupID api.ID) (*api.GroupDetail, error)
}

// Load fetches the rows of a listing. parent is the id of the record named
// by kind.Parent and is required when that is set.
func Load(ctx context.Context, l Lister, kind Kind, parent api.ID) ([]Row, error) {
	if p := kind.Parent(); p != "" && parent == "" {
		return nil, fmt.Errorf("listing %s needs a %s id", kind.Noun(), p)
	}

	switch kind {
	case Courses:
		cs, err := l.Courses(ctx)
		if err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		return CourseRows(cs), nil
	case Tests:
		ts, err := l.CourseTests(ctx, parent)
		if err != nil {
			return nil, fmt.Errorf("list tests of course %s: %w", parent, err)
		}
		return TestRows(parent, ts), nil
	case Users:
		us, err := l.Users(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		return UserRows(us), nil
	case Groups:
		gs, err := l.Groups(ctx)
		if err != nil {
			return nil, fmt.Errorf("list groups: %w", err)
		}
		return GroupRows(gs), nil
	case MyCourses:
		cs, err := l.TeacherCourses(ctx)
		if err != nil {
			return nil, fmt.Errorf("list taught courses: %w", err)
		}
		return MyCourseRows(cs), nil
	case MyTests:
		ts, err := l.TeacherTests(ctx)
		if err != nil {
			return nil, fmt.Errorf("list taught tests: %w", err)
		}
		return MyTestRows(ts), nil
	case Questions:
		qs, err := l.TeacherQuestions(ctx, parent)
		if err != nil {
			return nil, fmt.Errorf("list questions of test %s: %w", parent, err)
		}
		return QuestionRows(qs), nil
	case MyGroups:
		gs, err := l.TeacherGroups(ctx)
		if err != nil {
			return nil, fmt.Errorf("list taught groups: %w", err)
		}
		return GroupRows(gs), nil
	case Students:
		g, err := l.TeacherGroup(ctx, parent)
		if err != nil {
			return nil, fmt.Errorf("list students of group %s: %w", parent, err)
		}
		return StudentRows(g.Students), nil
	}
	return nil, fmt.Errorf("unknown listing %q", kind)
}

// CourseRows matches on title then description.
func CourseRows(cs []api.Course) []Row {
	rows := make([]Row, len(cs))
	for i, c := range cs {
		rows[i] = Row{
			ID:       c.ID,
			CourseID: c.ID,
			Fields:   []string{c.Title, c.Description},
			Columns:  []string{c.ID.String(), c.Title, c.Description, strconv.Itoa(c.TestCount)},
		}
	}
	return rows
}

// TestRows matches on title.
func TestRows(courseID api.ID, ts []api.TestInfo) []Row {
	rows := make([]Row, len(ts))
	for i, t := range ts {
		rows[i] = Row{
			ID:       t.ID,
			CourseID: courseID,
			Fields:   []string{t.Title},
			Columns:  []string{t.ID.String(), t.Title, strconv.Itoa(t.QuestionCount)},
		}
	}
	return rows
}

// UserRows matches on email then full name.
func UserRows(us []api.User) []Row {
	rows := make([]Row, len(us))
	for i, u := range us {
		active := "no"
		if u.IsActive {
			active = "yes"
		}
		rows[i] = Row{
			ID:      u.ID,
			Fields:  []string{u.Email, u.FullName},
			Columns: []string{u.ID.String(), u.Email, u.FullName, u.Role, active},
		}
	}
	return rows
}

// GroupRows matches on name.
func GroupRows(gs []api.Group) []Row {
	rows := make([]Row, len(gs))
	for i, g := range gs {
		teacher := "-"
		if g.TeacherID != nil && *g.TeacherID != "" {
			teacher = g.TeacherID.String()
		}
		rows[i] = Row{
			ID:      g.ID,
			Fields:  []string{g.Name},
			Columns: []string{g.ID.String(), g.Name, teacher},
		}
	}
	return rows
}

// MyCourseRows matches on title then description.
func MyCourseRows(cs []api.TeacherCourse) []Row {
	rows := make([]Row, len(cs))
	for i, c := range cs {
		rows[i] = Row{
			ID:       c.ID,
			CourseID: c.ID,
			Fields:   []string{c.Title, c.Description},
			Columns:  []string{c.ID.String(), c.Title, c.Description},
		}
	}
	return rows
}

// MyTestRows matches on title then description.
func MyTestRows(ts []api.TeacherTest) []Row {
	rows := make([]Row, len(ts))
	for i, t := range ts {
		rows[i] = Row{
			ID:       t.ID,
			CourseID: t.CourseID,
			Fields:   []string{t.Title, t.Description},
			Columns:  []string{t.ID.String(), t.Title, t.Description, t.CourseID.String()},
		}
	}
	return rows
}

// QuestionRows matches on the question text.
func QuestionRows(qs []api.Question) []Row {
	rows := make([]Row, len(qs))
	for i, q := range qs {
		kind := string(q.Type)
		if q.Type == api.QuestionClosed {
			kind = "single"
			if q.MultipleChoice {
				kind = "multi"
			}
		}
		answer := q.CorrectAnswerText
		if answer == "" {
			answer = "-"
		}
		rows[i] = Row{
			ID:      q.ID,
			Fields:  []string{q.Text},
			Columns: []string{q.ID.String(), q.Text, kind, answer},
		}
	}
	return rows
}

// StudentRows matches on email then full name.
func StudentRows(ss []api.Student) []Row {
	rows := make([]Row, len(ss))
	for i, st := range ss {
		rows[i] = Row{
			ID:      st.ID,
			Fields:  []string{st.Email, st.FullName},
			Columns: []string{st.ID.String(), st.Email, st.FullName},
		}
	}
	return rows
}
