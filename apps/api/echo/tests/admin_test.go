package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/notification"
	"github.com/trezcool/campus/core/user"
	"github.com/trezcool/campus/tests"
)

func Test_adminApi_enroll(t *testing.T) {
	app, a := setup(t)

	admin := testutil.CreateUser(a.DB, "Admin", "admin@test.cd", auth.RoleAdmin)
	teacher := testutil.CreateUser(a.DB, "Teacher", "teacher@test.cd", auth.RoleTeacher)
	class := testutil.CreateClass(a.DB, "Grade 3", teacher)
	studentUsr, student := testutil.CreateStudentWithAccount(a.DB, "Amani", "amani@test.cd")
	adminToken := testutil.Token(t, a.Verifier, admin)

	body := marchallObj(t, academic.NewEnrollment{StudentID: student.ID, ClassID: class.ID})

	runHTTPTests(t, app, []httpTest{
		{
			name: "teacher cannot enroll", method: http.MethodPost, path: "/api/admin/enrollments", body: body,
			token: testutil.Token(t, a.Verifier, teacher), wantCode: http.StatusForbidden,
			wantData: errResp(t, http.StatusForbidden, `role "teacher" is not allowed to createEnrollment`),
		},
		{
			name: "unknown student", method: http.MethodPost, path: "/api/admin/enrollments", token: adminToken,
			body:     marchallObj(t, academic.NewEnrollment{StudentID: teacher.UserID, ClassID: class.ID}),
			wantCode: http.StatusNotFound, wantData: errResp(t, http.StatusNotFound, "student not found"),
		},
	})

	rec := serve(app, http.MethodPost, "/api/admin/enrollments", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var enr academic.Enrollment
	decodeData(t, rec, &enr)
	assert.Equal(t, student.ID, enr.StudentID)
	assert.Equal(t, class.ID, enr.ClassID)

	if notifs := a.DB.Notifications(studentUsr.UserID); assert.Len(t, notifs, 1) {
		assert.Equal(t, "Class Enrollment", notifs[0].Title)
		assert.Equal(t, notification.TypeSuccess, notifs[0].Type)
	}

	rec = serve(app, http.MethodPost, "/api/admin/enrollments", adminToken, body)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusConflict,
		wantData: errResp(t, http.StatusConflict, "student is already enrolled in this class"),
	}, rec)
}

func Test_adminApi_users(t *testing.T) {
	app, a := setup(t)

	admin := testutil.CreateUser(a.DB, "Admin", "admin@test.cd", auth.RoleAdmin)
	teacher := testutil.CreateUser(a.DB, "Teacher Jane", "jane@test.cd", auth.RoleTeacher)
	newcomer := testutil.CreateUser(a.DB, "Newcomer", "new@test.cd", "")
	adminToken := testutil.Token(t, a.Verifier, admin)

	runHTTPTests(t, app, []httpTest{
		{
			name: "self demotion", method: http.MethodPut, path: "/api/admin/users/" + admin.UserID + "/role", token: adminToken,
			body: []byte(`{"role":"teacher"}`), wantCode: http.StatusForbidden,
			wantData: errResp(t, http.StatusForbidden, "admins cannot change their own role"),
		},
		{
			name: "unknown role", method: http.MethodPut, path: "/api/admin/users/" + newcomer.UserID + "/role", token: adminToken,
			body: []byte(`{"role":"janitor"}`), wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{"role": "role must be one of: admin, teacher, student"}),
		},
		{
			name: "unknown user", method: http.MethodPut, path: "/api/admin/users/nope/role", token: adminToken,
			body: []byte(`{"role":"teacher"}`), wantCode: http.StatusNotFound, wantData: errResp(t, http.StatusNotFound, "user not found"),
		},
		{
			name: "teacher cannot list users", path: "/api/admin/users", token: testutil.Token(t, a.Verifier, teacher),
			wantCode: http.StatusForbidden, wantData: errResp(t, http.StatusForbidden, `role "teacher" is not allowed to listUsers`),
		},
	})

	newcomerToken := testutil.Token(t, a.Verifier, newcomer)
	rec := serve(app, http.MethodGet, "/api/classes", newcomerToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(app, http.MethodPut, "/api/admin/users/"+newcomer.UserID+"/role", adminToken, []byte(`{"role":" Teacher "}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var prof user.Profile
	decodeData(t, rec, &prof)
	assert.Equal(t, "teacher", prof.Role.String)

	rec = serve(app, http.MethodGet, "/api/classes", newcomerToken)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("list users", func(t *testing.T) {
		rec := serve(app, http.MethodGet, "/api/admin/users?role=teacher", adminToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var profs []user.Profile
		decodeData(t, rec, &profs)
		assert.Len(t, profs, 2)

		rec = serve(app, http.MethodGet, "/api/admin/users?search=JANE", adminToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decodeData(t, rec, &profs)
		if assert.Len(t, profs, 1) {
			assert.Equal(t, teacher.UserID, profs[0].UserID)
		}
	})
}
