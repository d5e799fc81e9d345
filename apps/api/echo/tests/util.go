package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/campus/apps/api/echo"
	"github.com/trezcool/campus/tests"
)

type (
	apiError struct {
		Message    string            `json:"message"`
		StatusCode int               `json:"statusCode"`
		Fields     map[string]string `json:"fields,omitempty"`
	}

	apiResponse struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data,omitempty"`
		Error   *apiError       `json:"error,omitempty"`
	}

	httpTest struct {
		name     string
		method   string
		path     string
		body     []byte
		token    string
		wantCode int
		wantData []byte
		extra    interface{}
	}
)

func setup(t *testing.T) (Server, *testutil.App) {
	t.Helper()
	a := testutil.NewApp()

	app := NewServer(
		"",  /* addr */
		nil, /* shutdown */
		&Deps{
			Conf:       a.Conf,
			Logger:     a.Logger,
			Translator: a.Translator,
			Verifier:   a.Verifier,
			Oracle:     a.Oracle,
			Gate:       a.Gate,

			AcademicSvc:     a.AcademicSvc,
			MarkSvc:         a.MarkSvc,
			AttendanceSvc:   a.AttendanceSvc,
			AssignmentSvc:   a.AssignmentSvc,
			AnnouncementSvc: a.AnnouncementSvc,
			TestSvc:         a.TestSvc,
			UserSvc:         a.UserSvc,
			NotificationSvc: a.NotificationSvc,
		},
	)
	return app, a
}

func testCtx() context.Context {
	return context.Background()
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

// serve runs one request against app.
func serve(app Server, method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// errResp is the body of a failed request.
func errResp(t *testing.T, code int, msg string, fields ...map[string]string) []byte {
	e := &apiError{Message: msg, StatusCode: code}
	if len(fields) > 0 {
		e.Fields = fields[0]
	}
	return marchallObj(t, apiResponse{Error: e})
}

// decodeData checks that rec holds a successful response and decodes its data into dest.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.True(t, resp.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, dest), rec.Body.String())
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqualValues(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := serve(app, method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
