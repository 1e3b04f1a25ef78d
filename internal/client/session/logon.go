package session

import "net/url"

const logonParam = "logon"

// ConsumeLogonTrigger reports whether rawURL asks to open the sign-in dialog
// (?logon=1) and returns the URL with that parameter removed. Unparseable
// input is returned unchanged.
func ConsumeLogonTrigger(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, false
	}
	q := u.Query()
	if q.Get(logonParam) != "1" {
		return rawURL, false
	}
	q.Del(logonParam)
	u.RawQuery = q.Encode()
	return u.String(), true
}
