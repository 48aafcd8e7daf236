// Package identityfake runs an in-process stand-in for the upstream identity backend.
package identityfake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/jrsteele09/docdash/identity"
	"github.com/jrsteele09/docdash/permissions"
)

// Account is a user known to the fake upstream.
type Account struct {
	Password     string
	User         identity.User
	AccessToken  string
	RefreshToken string
	Permissions  permissions.Set
}

// Upstream serves POST /auth/login and GET /auth/profile.
type Upstream struct {
	*httptest.Server

	mu           sync.Mutex
	accounts     map[string]Account
	loginCalls   int
	profileCalls int

	// CookieAttributes, when set, adds "Set-Cookie: refresh-token=<token>; <CookieAttributes>" to login responses.
	CookieAttributes string
	// OmitBodyRefreshToken leaves refreshToken out of the login body.
	OmitBodyRefreshToken bool
	// LoginBody replaces the login response body for every request.
	LoginBody string
	// LoginStatus forces the login response status.
	LoginStatus int
	// ProfileStatus forces the profile response status.
	ProfileStatus int
}

func New() *Upstream {
	u := &Upstream{accounts: make(map[string]Account)}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", u.login)
	mux.HandleFunc("GET /auth/profile", u.profile)
	u.Server = httptest.NewServer(mux)
	return u
}

func (u *Upstream) AddAccount(a Account) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.accounts[a.User.Username] = a
}

func (u *Upstream) LoginCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.loginCalls
}

func (u *Upstream) ProfileCalls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.profileCalls
}

func (u *Upstream) login(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.loginCalls++
	status, rawBody := u.LoginStatus, u.LoginBody
	u.mu.Unlock()

	if status != 0 && (status < 200 || status > 299) {
		writeJSON(w, status, map[string]string{"message": "forced failure"})
		return
	}
	if rawBody != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, rawBody)
		return
	}

	var creds identity.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	u.mu.Lock()
	account, ok := u.accounts[creds.Username]
	u.mu.Unlock()
	if !ok || account.Password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}

	if u.CookieAttributes != "" {
		w.Header().Add("Set-Cookie", fmt.Sprintf("refresh-token=%s; %s", account.RefreshToken, u.CookieAttributes))
	}
	body := map[string]any{
		"user":        account.User,
		"accessToken": account.AccessToken,
	}
	if !u.OmitBodyRefreshToken {
		body["refreshToken"] = account.RefreshToken
	}
	writeJSON(w, http.StatusOK, body)
}

func (u *Upstream) profile(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.profileCalls++
	status := u.ProfileStatus
	u.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]string{"message": "forced failure"})
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, a := range u.accounts {
		if token != "" && a.AccessToken == token {
			writeJSON(w, http.StatusOK, identity.Profile{User: a.User, Permissions: a.Permissions})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
