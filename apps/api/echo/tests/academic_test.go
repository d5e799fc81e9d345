package tests

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/mark"
	"github.com/trezcool/campus/tests"
)

func Test_adminApi_bootstrap(t *testing.T) {
	app, a := setup(t)

	admin := testutil.CreateUser(a.DB, "Admin", "admin@test.cd", auth.RoleAdmin)
	teacher := testutil.CreateUser(a.DB, "Teacher", "teacher@test.cd", auth.RoleTeacher)
	studentUsr := testutil.CreateUser(a.DB, "Amani", "amani@test.cd", auth.RoleStudent)
	adminToken := testutil.Token(t, a.Verifier, admin)
	teacherToken := testutil.Token(t, a.Verifier, teacher)

	runHTTPTests(t, app, []httpTest{
		{
			name: "teacher cannot open a class", method: http.MethodPost, path: "/api/admin/classes", token: teacherToken,
			body:     marchallObj(t, academic.NewClass{Name: "Grade 4", AcademicYear: "2026-2027"}),
			wantCode: http.StatusForbidden, wantData: errResp(t, http.StatusForbidden, `role "teacher" is not allowed to createClass`),
		},
		{
			name: "class without name", method: http.MethodPost, path: "/api/admin/classes", token: adminToken,
			body:     []byte(`{"name":"  ","academic_year":"2026-2027"}`),
			wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{"name": "name is required"}),
		},
	})

	rec := serve(app, http.MethodPost, "/api/admin/classes", adminToken,
		marchallObj(t, academic.NewClass{Name: " Grade 4 ", Section: "B", AcademicYear: "2026-2027"}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var class academic.Class
	decodeData(t, rec, &class)
	assert.Equal(t, "Grade 4", class.Name)
	assert.Equal(t, "B", class.Section)

	t.Run("roster", func(t *testing.T) {
		rec := serve(app, http.MethodPost, "/api/admin/students", adminToken,
			marchallObj(t, academic.NewStudent{FullName: "Amani", Email: " Amani@Test.cd ", RollNumber: "R-001"}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var student academic.Student
		decodeData(t, rec, &student)
		assert.Equal(t, "amani@test.cd", student.Email)

		rec = serve(app, http.MethodPost, "/api/admin/students", adminToken,
			marchallObj(t, academic.NewStudent{FullName: "Amani Twin", Email: "AMANI@test.cd"}))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: errResp(t, http.StatusConflict, "a student with this email already exists"),
		}, rec)
	})

	t.Run("teacher assignment", func(t *testing.T) {
		path := "/api/admin/classes/" + class.ID + "/teachers"

		// not assigned yet
		rec := serve(app, http.MethodGet, "/api/classes/"+class.ID+"/students", teacherToken)
		require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

		runHTTPTests(t, app, []httpTest{
			{
				name: "not a teacher", method: http.MethodPost, path: path, token: adminToken,
				body:     marchallObj(t, academic.NewClassTeacher{TeacherID: studentUsr.UserID}),
				wantCode: http.StatusBadRequest,
				wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{"teacher_id": "user is not a teacher"}),
			},
			{
				name: "unknown user", method: http.MethodPost, path: path, token: adminToken,
				body:     marchallObj(t, academic.NewClassTeacher{TeacherID: uuid.New().String()}),
				wantCode: http.StatusBadRequest,
				wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{"teacher_id": "user is not a teacher"}),
			},
			{
				name: "unknown class", method: http.MethodPost, path: "/api/admin/classes/nope/teachers", token: adminToken,
				body:     marchallObj(t, academic.NewClassTeacher{TeacherID: teacher.UserID}),
				wantCode: http.StatusNotFound, wantData: errResp(t, http.StatusNotFound, "class not found"),
			},
		})

		rec = serve(app, http.MethodPost, path, adminToken, marchallObj(t, academic.NewClassTeacher{TeacherID: teacher.UserID}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		if notifs := a.DB.Notifications(teacher.UserID); assert.Len(t, notifs, 1) {
			assert.Equal(t, "Class Assignment", notifs[0].Title)
			assert.Equal(t, "You have been assigned to Grade 4.", notifs[0].Message)
		}

		rec = serve(app, http.MethodGet, "/api/classes/"+class.ID+"/students", teacherToken)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = serve(app, http.MethodPost, path, adminToken, marchallObj(t, academic.NewClassTeacher{TeacherID: teacher.UserID}))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: errResp(t, http.StatusConflict, "teacher is already assigned to this class"),
		}, rec)
	})
}

func Test_classApi_subjectsAndExams(t *testing.T) {
	app, a := setup(t)

	teacher := testutil.CreateUser(a.DB, "Teacher", "teacher@test.cd", auth.RoleTeacher)
	outsider := testutil.CreateUser(a.DB, "Outsider", "outsider@test.cd", auth.RoleTeacher)
	class := testutil.CreateClass(a.DB, "Grade 10", teacher)
	studentUsr, student := testutil.CreateStudentWithAccount(a.DB, "Amani", "amani@test.cd")
	testutil.Enroll(a.DB, class, student)

	teacherToken := testutil.Token(t, a.Verifier, teacher)
	outsiderToken := testutil.Token(t, a.Verifier, outsider)
	newSubject := marchallObj(t, academic.NewSubject{ClassID: class.ID, Name: " Mathematics ", Code: "MATH"})

	runHTTPTests(t, app, []httpTest{
		{
			name: "subject in another teacher's class", method: http.MethodPost, path: "/api/teacher/subjects", token: outsiderToken,
			body: newSubject, wantCode: http.StatusForbidden, wantData: errResp(t, http.StatusForbidden, "you are not assigned to this class"),
		},
		{
			name: "student cannot add subjects", method: http.MethodPost, path: "/api/teacher/subjects",
			token: testutil.Token(t, a.Verifier, studentUsr), body: newSubject, wantCode: http.StatusForbidden,
			wantData: errResp(t, http.StatusForbidden, `role "student" is not allowed to createSubject`),
		},
		{
			name: "unknown class", method: http.MethodPost, path: "/api/teacher/subjects", token: teacherToken,
			body:     marchallObj(t, academic.NewSubject{ClassID: uuid.New().String(), Name: "Mathematics"}),
			wantCode: http.StatusNotFound, wantData: errResp(t, http.StatusNotFound, "class not found"),
		},
	})

	rec := serve(app, http.MethodPost, "/api/teacher/subjects", teacherToken, newSubject)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var subject academic.Subject
	decodeData(t, rec, &subject)
	assert.Equal(t, "Mathematics", subject.Name)
	assert.Equal(t, class.ID, subject.ClassID)

	runHTTPTests(t, app, []httpTest{
		{
			name: "exam of another teacher's subject", method: http.MethodPost, path: "/api/teacher/exams", token: outsiderToken,
			body:     marchallObj(t, academic.NewExam{SubjectID: subject.ID, Name: "Midterm", MaxMarks: 50, ExamDate: "2026-11-03"}),
			wantCode: http.StatusForbidden, wantData: errResp(t, http.StatusForbidden, "you are not assigned to this class"),
		},
		{
			name: "badly formatted date", method: http.MethodPost, path: "/api/teacher/exams", token: teacherToken,
			body:     marchallObj(t, academic.NewExam{SubjectID: subject.ID, Name: "Midterm", MaxMarks: 50, ExamDate: "03/11/2026"}),
			wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{
				"exam_date": "exam_date must be a date formatted as YYYY-MM-DD",
			}),
		},
		{
			name: "not a calendar date", method: http.MethodPost, path: "/api/teacher/exams", token: teacherToken,
			body:     marchallObj(t, academic.NewExam{SubjectID: subject.ID, Name: "Midterm", MaxMarks: 50, ExamDate: "2026-02-30"}),
			wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{"exam_date": "exam_date is not a valid calendar date"}),
		},
		{
			name: "unknown subject", method: http.MethodPost, path: "/api/teacher/exams", token: teacherToken,
			body:     marchallObj(t, academic.NewExam{SubjectID: uuid.New().String(), Name: "Midterm", MaxMarks: 50, ExamDate: "2026-11-03"}),
			wantCode: http.StatusNotFound, wantData: errResp(t, http.StatusNotFound, "subject not found"),
		},
	})
	assert.Zero(t, a.DB.NotificationCount())

	rec = serve(app, http.MethodPost, "/api/teacher/exams", teacherToken,
		marchallObj(t, academic.NewExam{SubjectID: subject.ID, Name: "Midterm", MaxMarks: 50, ExamDate: "2026-11-03"}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var exam academic.Exam
	decodeData(t, rec, &exam)
	assert.Equal(t, class.ID, exam.ClassID)
	assert.Equal(t, 50.0, exam.MaxMarks)

	if notifs := a.DB.Notifications(studentUsr.UserID); assert.Len(t, notifs, 1) {
		assert.Equal(t, "Upcoming Exam", notifs[0].Title)
		assert.Equal(t, "Mathematics Midterm is on Nov 3, 2026.", notifs[0].Message)
	}

	t.Run("marks can be uploaded for the new exam", func(t *testing.T) {
		rec := serve(app, http.MethodPost, "/api/marks", teacherToken,
			marchallObj(t, mark.NewMark{StudentID: student.ID, SubjectID: subject.ID, ExamID: exam.ID, MarksObtained: 42}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, 1, a.DB.MarkCount())
	})
}
