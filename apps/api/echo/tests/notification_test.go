package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/notification"
	"github.com/trezcool/campus/tests"
)

func Test_notificationApi(t *testing.T) {
	app, a := setup(t)

	admin := testutil.CreateUser(a.DB, "Admin", "admin@test.cd", auth.RoleAdmin)
	teacher := testutil.CreateUser(a.DB, "Teacher", "teacher@test.cd", auth.RoleTeacher)
	other := testutil.CreateUser(a.DB, "Other", "other@test.cd", auth.RoleTeacher)

	adminToken := testutil.Token(t, a.Verifier, admin)
	teacherToken := testutil.Token(t, a.Verifier, teacher)
	otherToken := testutil.Token(t, a.Verifier, other)

	newNotif := func(userID, title string) []byte {
		return marchallObj(t, notification.NewNotification{UserID: userID, Title: title, Message: "Staff meeting at 3pm", Type: notification.TypeAnnouncement})
	}

	tests := []httpTest{
		{
			name: "teacher cannot create", method: http.MethodPost, path: "/api/notifications", body: newNotif(other.UserID, "Hi"),
			token: teacherToken, wantCode: http.StatusForbidden,
			wantData: errResp(t, http.StatusForbidden, `role "teacher" is not allowed to createNotification`),
		},
		{
			name: "unknown type", method: http.MethodPost, path: "/api/notifications", token: adminToken,
			body:     []byte(`{"user_id":"` + teacher.UserID + `","title":"Hi","message":"Hello","type":"spam"}`),
			wantCode: http.StatusBadRequest,
			wantData: errResp(t, http.StatusBadRequest, "invalid input", map[string]string{
				"type": "type must be one of: info, warning, success, error, assignment, test, announcement",
			}),
		},
	}
	runHTTPTests(t, app, tests)

	var ids []string
	for _, title := range []string{"First", "Second"} {
		rec := serve(app, http.MethodPost, "/api/notifications", adminToken, newNotif(teacher.UserID, title))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var n notification.Notification
		decodeData(t, rec, &n)
		assert.Equal(t, teacher.UserID, n.UserID)
		assert.Equal(t, notification.TypeAnnouncement, n.Type)
		ids = append(ids, n.ID)
	}

	t.Run("list own, newest first", func(t *testing.T) {
		rec := serve(app, http.MethodGet, "/api/notifications", teacherToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var notifs []notification.Notification
		decodeData(t, rec, &notifs)
		if assert.Len(t, notifs, 2) {
			assert.Equal(t, "Second", notifs[0].Title)
			assert.Equal(t, "First", notifs[1].Title)
		}

		rec = serve(app, http.MethodGet, "/api/notifications", otherToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"success":true,"data":[]}`)}, rec)
	})

	t.Run("mark read by someone else", func(t *testing.T) {
		rec := serve(app, http.MethodPatch, "/api/notifications/"+ids[0]+"/read", otherToken)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: errResp(t, http.StatusNotFound, "notification not found"),
		}, rec)
	})

	t.Run("unread count", func(t *testing.T) {
		rec := serve(app, http.MethodGet, "/api/notifications/unread-count", teacherToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"success":true,"data":{"count":2}}`)}, rec)
	})

	t.Run("mark read by recipient", func(t *testing.T) {
		rec := serve(app, http.MethodPatch, "/api/notifications/"+ids[0]+"/read", teacherToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var n notification.Notification
		decodeData(t, rec, &n)
		assert.True(t, n.IsRead)

		rec = serve(app, http.MethodGet, "/api/notifications?unread=true", teacherToken)
		var notifs []notification.Notification
		decodeData(t, rec, &notifs)
		if assert.Len(t, notifs, 1) {
			assert.Equal(t, ids[1], notifs[0].ID)
		}
	})

	t.Run("mark all read", func(t *testing.T) {
		rec := serve(app, http.MethodPatch, "/api/notifications/read-all", teacherToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"success":true,"data":{"updated":1}}`)}, rec)

		rec = serve(app, http.MethodGet, "/api/notifications/unread-count", teacherToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"success":true,"data":{"count":0}}`)}, rec)
	})
}
