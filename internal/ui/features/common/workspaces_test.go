package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ n int }

func TestWorkspaces_EvictsLeastRecentlyUsed(t *testing.T) {
	w := NewWorkspaces[counter](2, time.Hour)

	w.Get("a").n = 1
	w.Get("b").n = 2
	w.Get("a") // a is now the most recent
	w.Get("c")

	assert.Equal(t, 2, w.Len())
	_, ok := w.Lookup("b")
	assert.False(t, ok)

	a, ok := w.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 1, a.n)
}

func TestWorkspaces_Expire(t *testing.T) {
	w := NewWorkspaces[counter](10, 50*time.Millisecond)
	w.Get("a").n = 1

	assert.Eventually(t, func() bool {
		_, ok := w.Lookup("a")
		return !ok
	}, time.Second, 10*time.Millisecond)

	assert.Zero(t, w.Get("a").n, "expired workspace starts over")
}

func TestWorkspaces_LookupDoesNotCreate(t *testing.T) {
	w := NewWorkspaces[counter](0, 0)
	_, ok := w.Lookup("missing")
	assert.False(t, ok)
	assert.Zero(t, w.Len())
}

func TestWorkspaceID(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
	d := &Deps{SessionStore: store}

	sess := d.Session(httptest.NewRequest(http.MethodGet, "/", nil))
	_, ok := ExistingWorkspaceID(sess)
	assert.False(t, ok)

	id, changed := WorkspaceID(sess)
	assert.True(t, changed)
	assert.NotEmpty(t, id)

	again, changed := WorkspaceID(sess)
	assert.False(t, changed)
	assert.Equal(t, id, again)

	rec := httptest.NewRecorder()
	require.NoError(t, sess.Save(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	got, ok := ExistingWorkspaceID(d.Session(req))
	require.True(t, ok)
	assert.Equal(t, id, got)
}
