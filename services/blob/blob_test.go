package blob

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
)

func TestHTTPStore_Upload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		if r.URL.Path == "/storage/v1/object/submissions/fail/me.txt" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"denied"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPStore(&core.Config{Storage: core.StorageConfig{BaseURL: srv.URL + "/", APIKey: "key"}})

	url, err := store.Upload(context.Background(), "submissions", "a1/s1/my essay.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/submissions/a1/s1/my%20essay.pdf", url)
	assert.Equal(t, "/storage/v1/object/submissions/a1/s1/my%20essay.pdf", gotPath)
	assert.Equal(t, "Bearer key", gotAuth)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, []byte("%PDF"), gotBody)

	_, err = store.Upload(context.Background(), "submissions", "fail/me.txt", []byte("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestMemoryStore_Upload(t *testing.T) {
	store := NewMemoryStore()
	url, err := store.Upload(context.Background(), "avatars", "u1/me.png", []byte{1, 2}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "memory://avatars/u1/me.png", url)

	data, ok := store.Get("avatars", "u1/me.png")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2}, data)
}

func TestNewStore(t *testing.T) {
	store := NewStore(&core.Config{})
	mem, ok := store.(*MemoryStore)
	require.True(t, ok)
	url, err := mem.Upload(context.Background(), "profile-photos", "u1/avatar.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "memory://profile-photos/u1/avatar.png", url)

	_, ok = NewStore(&core.Config{Storage: core.StorageConfig{BaseURL: "http://localhost:54321"}}).(*HTTPStore)
	assert.True(t, ok)
}
