package common

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// SessionName names the cookie of the browser session.
	SessionName  = "leapquery"
	workspaceKey = "workspace"
)

// Session returns the browser session. A cookie that fails to decode,
// e.g. after the secret changed, yields a fresh session.
func (d *Deps) Session(r *http.Request) *sessions.Session {
	sess, err := d.SessionStore.Get(r, SessionName)
	if err != nil {
		d.Log().Debug("discarding invalid session", "error", err)
	}
	return sess
}

// WorkspaceID returns the session's workspace id, assigning one if needed.
// It reports whether the session changed and must be saved.
func WorkspaceID(sess *sessions.Session) (string, bool) {
	if id, ok := ExistingWorkspaceID(sess); ok {
		return id, false
	}
	id := uuid.NewString()
	sess.Values[workspaceKey] = id
	return id, true
}

// ExistingWorkspaceID returns the session's workspace id without assigning
// one.
func ExistingWorkspaceID(sess *sessions.Session) (string, bool) {
	id, ok := sess.Values[workspaceKey].(string)
	return id, ok && id != ""
}
