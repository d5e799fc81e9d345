package tests

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/notification"
	"github.com/trezcool/campus/tests"
)

func Test_assignmentApi(t *testing.T) {
	app, a := setup(t)

	teacher := testutil.CreateUser(a.DB, "Teacher", "teacher@test.cd", auth.RoleTeacher)
	outsider := testutil.CreateUser(a.DB, "Other Teacher", "other@test.cd", auth.RoleTeacher)
	class := testutil.CreateClass(a.DB, "Grade 12", teacher)
	otherClass := testutil.CreateClass(a.DB, "Grade 9", outsider)
	otherSubject := testutil.CreateSubject(a.DB, otherClass, "Chemistry")
	studentUsr, student := testutil.CreateStudentWithAccount(a.DB, "Amani", "amani@test.cd")
	strangerUsr, _ := testutil.CreateStudentWithAccount(a.DB, "Stranger", "stranger@test.cd")
	testutil.Enroll(a.DB, class, student)

	teacherToken := testutil.Token(t, a.Verifier, teacher)
	studentToken := testutil.Token(t, a.Verifier, studentUsr)
	due := time.Date(2026, 11, 20, 23, 59, 0, 0, time.UTC)

	tests := []httpTest{
		{
			name: "subject of another class", method: http.MethodPost, path: "/api/teacher/assignments", token: teacherToken,
			body:     marchallObj(t, assignment.NewAssignment{ClassID: class.ID, SubjectID: otherSubject.ID, Title: "Essay", DueDate: due}),
			wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{
				"subject_id": "subject does not belong to this class",
			}),
		},
		{
			name: "class of another teacher", method: http.MethodPost, path: "/api/teacher/assignments", token: teacherToken,
			body:     marchallObj(t, assignment.NewAssignment{ClassID: otherClass.ID, Title: "Essay", DueDate: due}),
			wantCode: http.StatusForbidden, wantData: errResp(t, http.StatusForbidden, "you are not assigned to this class"),
		},
	}
	runHTTPTests(t, app, tests)

	rec := serve(app, http.MethodPost, "/api/teacher/assignments", teacherToken,
		marchallObj(t, assignment.NewAssignment{ClassID: class.ID, Title: " Essay ", Description: "500 words", DueDate: due}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var asgmt assignment.Assignment
	decodeData(t, rec, &asgmt)
	assert.Equal(t, "Essay", asgmt.Title)
	assert.Equal(t, 100.0, asgmt.MaxScore)

	if notifs := a.DB.Notifications(studentUsr.UserID); assert.Len(t, notifs, 1) {
		assert.Equal(t, "New Assignment", notifs[0].Title)
		assert.Equal(t, "Essay is due on Nov 20, 2026.", notifs[0].Message)
		assert.Equal(t, notification.TypeAssignment, notifs[0].Type)
	}
	assert.Empty(t, a.DB.Notifications(strangerUsr.UserID))

	submitPath := "/api/student/assignments/" + asgmt.ID + "/submit"
	file := &assignment.File{Name: "essay.txt", ContentType: "text/plain", Data: base64.StdEncoding.EncodeToString([]byte("my essay"))}

	tests = []httpTest{
		{
			name: "empty submission", method: http.MethodPost, path: submitPath, token: studentToken, body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{"content": "content is required"}),
		},
		{
			name: "blank content without file", method: http.MethodPost, path: submitPath, token: studentToken,
			body: []byte(`{"content":" \n\t "}`), wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{"content": "content is required"}),
		},
		{
			name: "not enrolled", method: http.MethodPost, path: submitPath, token: testutil.Token(t, a.Verifier, strangerUsr),
			body: []byte(`{"content":"hi"}`), wantCode: http.StatusForbidden,
			wantData: errResp(t, http.StatusForbidden, "you are not enrolled in this assignment's class"),
		},
		{
			name: "teacher cannot submit", method: http.MethodPost, path: submitPath, token: teacherToken,
			body: []byte(`{"content":"hi"}`), wantCode: http.StatusForbidden,
			wantData: errResp(t, http.StatusForbidden, `role "teacher" is not allowed to submitAssignment`),
		},
		{
			name: "unknown assignment", method: http.MethodPost, path: "/api/student/assignments/nope/submit", token: studentToken,
			body: []byte(`{"content":"hi"}`), wantCode: http.StatusNotFound, wantData: errResp(t, http.StatusNotFound, "assignment not found"),
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("submit with file", func(t *testing.T) {
		rec := serve(app, http.MethodPost, submitPath, studentToken, marchallObj(t, assignment.NewSubmission{Content: "see file", File: file}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var sub assignment.Submission
		decodeData(t, rec, &sub)
		key := asgmt.ID + "/" + student.ID + "/essay.txt"
		assert.Equal(t, "memory://assignment-submissions/"+key, sub.FileURL.String)

		data, ok := a.Blob.Get("assignment-submissions", key)
		require.True(t, ok)
		assert.Equal(t, "my essay", string(data))

		if notifs := a.DB.Notifications(teacher.UserID); assert.Len(t, notifs, 1) {
			assert.Equal(t, "New Submission", notifs[0].Title)
			assert.Equal(t, "Amani submitted Essay.", notifs[0].Message)
		}
	})

	t.Run("resubmit", func(t *testing.T) {
		rec := serve(app, http.MethodPost, submitPath, studentToken, []byte(`{"content":"second try"}`))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: errResp(t, http.StatusConflict, "assignment already submitted"),
		}, rec)
	})

	t.Run("submissions", func(t *testing.T) {
		path := "/api/teacher/assignments/" + asgmt.ID + "/submissions"

		rec := serve(app, http.MethodGet, path, teacherToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var subs []assignment.Submission
		decodeData(t, rec, &subs)
		assert.Len(t, subs, 1)

		rec = serve(app, http.MethodGet, path, testutil.Token(t, a.Verifier, outsider))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: errResp(t, http.StatusForbidden, "you did not create this assignment"),
		}, rec)
	})

	t.Run("list is scoped to visible classes", func(t *testing.T) {
		for _, tc := range []struct {
			token string
			want  int
		}{
			{teacherToken, 1},
			{studentToken, 1},
			{testutil.Token(t, a.Verifier, outsider), 0},
			{testutil.Token(t, a.Verifier, strangerUsr), 0},
		} {
			rec := serve(app, http.MethodGet, "/api/assignments", tc.token)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var as []assignment.Assignment
			decodeData(t, rec, &as)
			assert.Len(t, as, tc.want)
		}
	})
}

func Test_assignmentApi_fileSize(t *testing.T) {
	app, a := setup(t)

	teacher := testutil.CreateUser(a.DB, "Teacher", "teacher@test.cd", auth.RoleTeacher)
	class := testutil.CreateClass(a.DB, "Grade 12", teacher)
	firstUsr, first := testutil.CreateStudentWithAccount(a.DB, "Amani", "amani@test.cd")
	secondUsr, second := testutil.CreateStudentWithAccount(a.DB, "Baraka", "baraka@test.cd")
	testutil.Enroll(a.DB, class, first, second)

	rec := serve(app, http.MethodPost, "/api/teacher/assignments", testutil.Token(t, a.Verifier, teacher),
		marchallObj(t, assignment.NewAssignment{ClassID: class.ID, Title: "Scan", DueDate: time.Now().Add(24 * time.Hour)}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var asgmt assignment.Assignment
	decodeData(t, rec, &asgmt)
	submitPath := "/api/student/assignments/" + asgmt.ID + "/submit"

	fileOf := func(size int) *assignment.File {
		return &assignment.File{Name: "scan.pdf", ContentType: "application/pdf", Data: base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("a"), size))}
	}

	t.Run("largest file allowed", func(t *testing.T) {
		rec := serve(app, http.MethodPost, submitPath, testutil.Token(t, a.Verifier, firstUsr),
			marchallObj(t, assignment.NewSubmission{File: fileOf(assignment.MaxFileSize)}))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("one byte too many", func(t *testing.T) {
		rec := serve(app, http.MethodPost, submitPath, testutil.Token(t, a.Verifier, secondUsr),
			marchallObj(t, assignment.NewSubmission{File: fileOf(assignment.MaxFileSize + 1)}))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{"file.data": "file must not exceed 10MB"}),
		}, rec)
	})
}
