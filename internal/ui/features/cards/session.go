package cards

import (
	"fmt"

	"github.com/gorilla/sessions"
)

const counterKey = "counter"

// nextCardID advances the session's card counter.
func nextCardID(sess *sessions.Session) string {
	n, _ := sess.Values[counterKey].(int)
	n++
	sess.Values[counterKey] = n
	return fmt.Sprintf("query_%d", n)
}
