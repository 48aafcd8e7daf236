package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	autherrors "github.com/jrsteele09/docdash/internal/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const (
	loginPath   = "/auth/login"
	profilePath = "/auth/profile"

	maxBodyBytes = 1 << 20
	tracerName   = "github.com/jrsteele09/docdash/identity"
)

// Client talks to the upstream identity backend. It never retries and imposes no
// timeout of its own: the caller's context bounds every call.
type Client struct {
	root       string
	httpClient *http.Client
	tracer     trace.Tracer
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(root string, opts ...ClientOption) *Client {
	c := &Client{
		root:       strings.TrimRight(root, "/"),
		httpClient: http.DefaultClient,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges a username/password pair for the user and its token pair.
func (c *Client) Login(ctx context.Context, creds Credentials) (_ *LoginResult, err error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, autherrors.Wrapf(autherrors.ErrValidation, "[identity Login] username and password are required")
	}

	ctx, span := c.tracer.Start(ctx, "identity.login")
	defer func() { endSpan(span, err) }()

	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, autherrors.Wrapf(err, "[identity Login] encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.root+loginPath, bytes.NewReader(payload))
	if err != nil {
		return nil, autherrors.Wrapf(err, "[identity Login] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrTransport, "[identity Login] %v", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, autherrors.Wrapf(autherrors.ErrAuthentication, "[identity Login] upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrTransport, "[identity Login] read body: %v", err)
	}
	if err := validateBody(loginResponseSchema, body); err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrProtocol, "[identity Login] %v", err)
	}

	var decoded struct {
		User         User    `json:"user"`
		AccessToken  string  `json:"accessToken"`
		RefreshToken *string `json:"refreshToken"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrProtocol, "[identity Login] decode body: %v", err)
	}

	result := &LoginResult{
		User:   decoded.User,
		Tokens: TokenPair{AccessToken: decoded.AccessToken},
		Header: resp.Header,
	}
	if decoded.RefreshToken != nil {
		result.Tokens.RefreshToken = *decoded.RefreshToken
	}
	return result, nil
}

// Profile fetches the current user's profile, attaching accessToken as a bearer credential.
func (c *Client) Profile(ctx context.Context, accessToken string) (_ *Profile, err error) {
	if accessToken == "" {
		return nil, autherrors.Wrapf(autherrors.ErrValidation, "[identity Profile] access token is required")
	}

	ctx, span := c.tracer.Start(ctx, "identity.profile")
	defer func() { endSpan(span, err) }()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.root+profilePath, nil)
	if err != nil {
		return nil, autherrors.Wrapf(err, "[identity Profile] build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrTransport, "[identity Profile] %v", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, autherrors.Wrapf(autherrors.ErrAuthentication, "[identity Profile] upstream status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, autherrors.Wrapf(autherrors.ErrTransport, "[identity Profile] upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrTransport, "[identity Profile] read body: %v", err)
	}
	if err := validateBody(profileResponseSchema, body); err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrProtocol, "[identity Profile] %v", err)
	}
	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrProtocol, "[identity Profile] decode body: %v", err)
	}
	return &profile, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, autherrors.Reason(err))
	}
	span.End()
}
