package common

import (
	"fmt"
	"net/url"
)

var (
	// Email cache keys
	emailByQuery string = "emails:%s:q:%s" // identity, urlencoded query
	emailByCount string = "emails:%s:n:%d" // identity, desired count

	// Session keys
	sessionState string = "session:state:%s" // sessionId
)

var Keys = &redisKeys{}

type redisKeys struct{}

// Email cache keys. Query-scoped and count-scoped entries live in disjoint
// key spaces so a derived search query can never collide with a plain
// recency fetch for the same user.

func (rk *redisKeys) EmailByQuery(identity, query string) string {
	return fmt.Sprintf(emailByQuery, identity, url.QueryEscape(query))
}

func (rk *redisKeys) EmailByCount(identity string, count int) string {
	return fmt.Sprintf(emailByCount, identity, count)
}

// Session keys

func (rk *redisKeys) SessionState(sessionId string) string {
	return fmt.Sprintf(sessionState, sessionId)
}
