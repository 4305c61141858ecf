package types

// MaxBodyChars caps the plain-text body stored per email
const MaxBodyChars = 500

// Email is a normalized mailbox message. Constructed once per fetch and never
// mutated afterwards; serialized verbatim into the cache.
type Email struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Date     string `json:"date"` // raw provider date header
	Snippet  string `json:"snippet"`
	Body     string `json:"body"`
	IsUnread bool   `json:"is_unread"`
}

// FetchResult is the outcome of one mailbox retrieval. Total counts every
// message id observed during listing and may exceed len(Emails) when the
// detail-fetch phase was capped.
type FetchResult struct {
	Emails []Email `json:"emails"`
	Total  int     `json:"total"`
}
