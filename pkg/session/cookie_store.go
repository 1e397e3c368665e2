package session

import (
	"net/http"
	"sync"
)

// Cookie names used by the web console
const (
	TokenCookie   = "vhf_token"
	ExpiredCookie = "vhf_session_expired"
)

// CookieStore keeps the session of a browser in cookies. It is bound to one
// request and its response; changes are visible to later reads of the same
// request.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	mu      sync.Mutex
	token   *string
	expired *bool
}

// NewCookieStore creates a store for one request
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure}
}

// Token implements Store
func (s *CookieStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil {
		return *s.token, nil
	}
	c, err := s.r.Cookie(TokenCookie)
	if err != nil {
		return "", nil
	}
	return c.Value, nil
}

// SetToken implements Store
func (s *CookieStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = &token
	http.SetCookie(s.w, s.cookie(TokenCookie, token, 0))
	return nil
}

// Clear implements Store
func (s *CookieStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := ""
	s.token = &empty
	http.SetCookie(s.w, s.cookie(TokenCookie, "", -1))
	return nil
}

// MarkExpired implements Store
func (s *CookieStore) MarkExpired() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := true
	s.expired = &set
	http.SetCookie(s.w, s.cookie(ExpiredCookie, "1", 0))
	return nil
}

// TakeExpired implements Store
func (s *CookieStore) TakeExpired() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := false
	if s.expired != nil {
		expired = *s.expired
	} else if c, err := s.r.Cookie(ExpiredCookie); err == nil && c.Value != "" {
		expired = true
	}
	if expired {
		unset := false
		s.expired = &unset
		http.SetCookie(s.w, s.cookie(ExpiredCookie, "", -1))
	}
	return expired, nil
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
