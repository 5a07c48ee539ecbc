package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importExportFixture struct {
	*gradeFixture
	studentSvc *StudentService
	courseSvc  *CourseService
	svc        *ImportExportService
}

func newImportExportFixture(t *testing.T) *importExportFixture {
	t.Helper()
	g := newGradeFixture(t)
	f := &importExportFixture{
		gradeFixture: g,
		studentSvc:   NewStudentService(g.students, 18, nil, nil),
		courseSvc:    NewCourseService(g.courses, nil, nil),
	}
	f.svc = NewImportExportService(f.studentSvc, f.courseSvc, g.enrollSvc, g.svc, t.TempDir(), nil)
	return f
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestImportStudents(t *testing.T) {
	f := newImportExportFixture(t)
	path := writeCSV(t,
		"ID,RegNo,FullName,Email",
		"S1,2026-001,Aditi Rao,aditi@example.edu",
		"S2,2026-002,Bjorn Larsen,bjorn@example.edu",
	)

	result, err := f.svc.ImportStudents(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 2, f.students.Count())
}

func TestImportStudentsSkipsBadRows(t *testing.T) {
	f := newImportExportFixture(t)
	path := writeCSV(t,
		"ID,RegNo,FullName,Email",
		"S1,2026-001,Aditi Rao,aditi@example.edu",
		"S2,2026-002,Missing Email",
		"S3,2026-001,Duplicate RegNo,dup@example.edu",
		"S4,2026-004,Valid Person,valid@example.edu",
	)

	result, err := f.svc.ImportStudents(context.Background(), path)
	require.NoError(t, err, "row failures never abort the run")
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "line 3")
	assert.Contains(t, result.Errors[1], "line 4")
}

func TestImportEnrollmentsAppliesBusinessRules(t *testing.T) {
	f := newImportExportFixture(t)
	f.enroll(t, "S1", "CS101", 6) // existing enrollment blocks the re-import row
	f.addCourseOnly(t, "MA201", 6)
	f.addCourseOnly(t, "PH110", 6)
	f.addCourseOnly(t, "CH120", 6)

	path := writeCSV(t,
		"StudentID,CourseCode",
		"S1,CS101",
		"S1,MA201",
		"S1,PH110",
		"S1,CH120",
		"ghost,CS101",
	)

	result, err := f.svc.ImportEnrollments(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported, "duplicate, credit-limit and ghost rows are skipped")
	assert.Equal(t, 3, result.Skipped)
}

func TestImportGrades(t *testing.T) {
	f := newImportExportFixture(t)
	f.enroll(t, "S1", "CS101", 3)

	path := writeCSV(t,
		"StudentID,CourseCode,Marks",
		"S1,CS101,92.5",
		"S1,CS101,80", // create-only: second row for the pair is skipped
	)

	result, err := f.svc.ImportGrades(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	grade, ok := f.grades.Get("S1", "CS101")
	require.True(t, ok)
	assert.Equal(t, 92.5, grade.Marks)
}

func TestImportCourses(t *testing.T) {
	f := newImportExportFixture(t)
	path := writeCSV(t,
		"Code,Title,Credits,Department,Semester,Instructor",
		"CS101,Intro to Computing,3,CS,FALL,Prof. Mehta",
		"MA201,Linear Algebra,four,MATH,SPRING,",
	)

	result, err := f.svc.ImportCourses(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped, "non-numeric credits are reported, not fatal")

	course, ok := f.courses.Get("CS101")
	require.True(t, ok)
	assert.Equal(t, "Prof. Mehta", course.Instructor)
}

func TestExportAllWritesFourFiles(t *testing.T) {
	f := newImportExportFixture(t)
	f.enroll(t, "S1", "CS101", 3)
	_, err := f.gradeFixture.svc.RecordGrade(context.Background(), "S1", "CS101", 92)
	require.NoError(t, err)

	paths, err := f.svc.ExportAll(context.Background())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	for _, path := range paths {
		payload, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, payload)
	}

	students, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(students), "S1")
}

// addCourseOnly seeds the catalog without enrolling anyone.
func (f *importExportFixture) addCourseOnly(t *testing.T, code string, credits int) {
	t.Helper()
	_, err := f.courseSvc.Create(context.Background(), CreateCourseRequest{
		Code: code, Title: "Course " + code, Credits: credits,
		Department: "GEN", Semester: "FALL",
	})
	require.NoError(t, err)
}
