// Package session turns stored session state into the cookie set a browser
// needs to resume a signed-in visit.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCredential is returned when the raw session is absent or blank
	ErrEmptyCredential = errors.New("session state is empty")

	// ErrNoUsableSession is returned when parsing yields no cookies
	ErrNoUsableSession = errors.New("no usable session cookies")
)

// Token is one session cookie ready to be installed in a browser
type Token struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Secure   bool   `json:"secure"`
	HTTPOnly bool   `json:"httpOnly"`
}

// CookieJar is the structured export format: {"url": ..., "cookies": [...]}
type CookieJar struct {
	URL     string        `json:"url,omitempty"`
	Cookies []cookieEntry `json:"cookies"`
}

// cookieEntry keeps optional fields as pointers so absent values get defaults
type cookieEntry struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Secure   *bool   `json:"secure"`
	HTTPOnly *bool   `json:"httpOnly"`
	Expires  float64 `json:"expirationDate,omitempty"`
}

// Parse accepts a JSON jar string, a "name=value; name2=value2" header
// string, or an already structured value, and returns the cookies with
// defaultDomain applied where an entry has none. Absent, blank and empty
// structured values yield ErrEmptyCredential; values that hold entries but
// no usable cookie yield ErrNoUsableSession.
func Parse(raw any, defaultDomain string) ([]Token, error) {
	var (
		tokens []Token
		err    error
	)

	switch v := raw.(type) {
	case nil:
		return nil, ErrEmptyCredential
	case string:
		tokens, err = parseString(v, defaultDomain)
	case []byte:
		tokens, err = parseString(string(v), defaultDomain)
	case CookieJar:
		if len(v.Cookies) == 0 {
			return nil, ErrEmptyCredential
		}
		tokens = fromEntries(v.Cookies, defaultDomain)
	case *CookieJar:
		if v == nil || len(v.Cookies) == 0 {
			return nil, ErrEmptyCredential
		}
		tokens = fromEntries(v.Cookies, defaultDomain)
	case []Token:
		if len(v) == 0 {
			return nil, ErrEmptyCredential
		}
		tokens = fromTokens(v, defaultDomain)
	case map[string]any:
		tokens, err = parseMap(v, defaultDomain)
	default:
		return nil, fmt.Errorf("%w: unsupported session type %T", ErrNoUsableSession, raw)
	}
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		return nil, ErrNoUsableSession
	}
	return tokens, nil
}

func parseString(s, defaultDomain string) ([]Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyCredential
	}

	switch s[0] {
	case '{':
		var jar CookieJar
		if err := json.Unmarshal([]byte(s), &jar); err == nil && jar.Cookies != nil {
			return fromEntries(jar.Cookies, defaultDomain), nil
		}
	case '[':
		var entries []cookieEntry
		if err := json.Unmarshal([]byte(s), &entries); err == nil {
			return fromEntries(entries, defaultDomain), nil
		}
	}

	return parseHeader(s, defaultDomain), nil
}

// parseHeader splits on ';' then on the first '='
func parseHeader(s, defaultDomain string) []Token {
	var tokens []Token
	for _, pair := range strings.Split(s, ";") {
		name, value, _ := strings.Cut(strings.TrimSpace(pair), "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tokens = append(tokens, Token{
			Name:   name,
			Value:  strings.TrimSpace(value),
			Domain: defaultDomain,
			Path:   "/",
			Secure: true,
		})
	}
	return tokens
}

func parseMap(m map[string]any, defaultDomain string) ([]Token, error) {
	if len(m) == 0 {
		return nil, ErrEmptyCredential
	}
	if _, ok := m["cookies"]; !ok {
		return nil, ErrNoUsableSession
	}

	// round-trip through JSON so the map gets the same defaults as a string jar
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUsableSession, err)
	}
	var jar CookieJar
	if err := json.Unmarshal(data, &jar); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUsableSession, err)
	}
	return fromEntries(jar.Cookies, defaultDomain), nil
}

func fromEntries(entries []cookieEntry, defaultDomain string) []Token {
	tokens := make([]Token, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		t := Token{
			Name:     e.Name,
			Value:    e.Value,
			Domain:   e.Domain,
			Path:     e.Path,
			Secure:   true,
			HTTPOnly: false,
		}
		if e.Secure != nil {
			t.Secure = *e.Secure
		}
		if e.HTTPOnly != nil {
			t.HTTPOnly = *e.HTTPOnly
		}
		tokens = append(tokens, withDefaults(t, defaultDomain))
	}
	return tokens
}

func fromTokens(in []Token, defaultDomain string) []Token {
	tokens := make([]Token, 0, len(in))
	for _, t := range in {
		if t.Name == "" {
			continue
		}
		tokens = append(tokens, withDefaults(t, defaultDomain))
	}
	return tokens
}

func withDefaults(t Token, defaultDomain string) Token {
	if t.Domain == "" {
		t.Domain = defaultDomain
	}
	if t.Path == "" {
		t.Path = "/"
	}
	return t
}

// Lookup returns the value of the named cookie
func Lookup(tokens []Token, name string) (string, bool) {
	for _, t := range tokens {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}
