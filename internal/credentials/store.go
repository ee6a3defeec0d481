// Package credentials loads the login session persisted by the external
// login helper. The pipeline only ever consumes the session as a set of
// cookies plus an opaque partition key; it never inspects login state beyond
// that.
package credentials

import (
	"encoding/json"
	"net/http"
	"os"
)

// sessionCookie is the cookie whose value gates stream entitlement. Its
// value (or its absence) is the play-source cache partition key.
const sessionCookie = "SESSDATA"

// Credentials is one immutable snapshot of the persisted session.
// The zero value is the anonymous credential set.
type Credentials struct {
	cookies []*http.Cookie
	session string
}

// Cookies returns the session cookies to attach to entitlement-gated
// requests. Empty for the anonymous set.
func (c Credentials) Cookies() []*http.Cookie {
	return c.cookies
}

// SessionKey returns the opaque cache-partition key for this credential
// context. The empty string is the anonymous sentinel partition.
func (c Credentials) SessionKey() string {
	return c.session
}

// IsAnonymous reports whether no session is present.
func (c Credentials) IsAnonymous() bool {
	return c.session == ""
}

// Store reads credentials from a local JSON document of the shape
//
//	{"cookie_info": {"cookies": [{"name": "...", "value": "..."}]}}
//
// written by the external login helper.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// credentialFile mirrors the helper's on-disk schema.
type credentialFile struct {
	CookieInfo struct {
		Cookies []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"cookies"`
	} `json:"cookie_info"`
}

// Load reads the document fresh from disk. A missing or malformed file
// yields the anonymous credential set, never an error: credentials may
// legitimately not exist yet. Callers re-load per resolution run because the
// external login flow can change them between runs.
func (s *Store) Load() Credentials {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Credentials{}
	}

	var doc credentialFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return Credentials{}
	}

	creds := Credentials{}
	for _, c := range doc.CookieInfo.Cookies {
		creds.cookies = append(creds.cookies, &http.Cookie{Name: c.Name, Value: c.Value})
		if c.Name == sessionCookie {
			creds.session = c.Value
		}
	}
	return creds
}
