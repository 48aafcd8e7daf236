package identity

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/docdash/permissions"
)

// Credentials exist only for the duration of a login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the upstream identity mirrored read-only into the session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Bio      string `json:"bio"`
}

// UnmarshalJSON accepts the id as a JSON string or integer and stores it as a string.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	*u = User(aux.plain)
	u.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// TokenPair holds the opaque tokens minted by the upstream. The refresh token only
// ever travels to the browser in an HTTP-only cookie.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// LoginResult is a successful credential exchange. Header is the upstream response
// header, untouched, so the refresh-token Set-Cookie can be relayed.
type LoginResult struct {
	User   User
	Tokens TokenPair
	Header http.Header
}

// Profile is the upstream profile document with its embedded permission set.
type Profile struct {
	User
	Email       string          `json:"email,omitempty"`
	Permissions permissions.Set `json:"permissions"`
}

// UnmarshalJSON decodes the embedded User with its own id handling, which would
// otherwise be promoted and swallow the profile fields.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	var rest struct {
		Email       string          `json:"email"`
		Permissions permissions.Set `json:"permissions"`
	}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	*p = Profile{User: u, Email: rest.Email, Permissions: rest.Permissions}
	return nil
}
