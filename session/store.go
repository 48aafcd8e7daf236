package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/docdash/cookies"
	"github.com/jrsteele09/docdash/identity"
	"github.com/jrsteele09/docdash/internal/config"
	autherrors "github.com/jrsteele09/docdash/internal/errors"
	"github.com/jrsteele09/docdash/internal/metrics"
	"github.com/jrsteele09/docdash/session/revocation"
	"github.com/rs/zerolog/log"
)

// ErrNoSession is returned by FromRequest when the request carries no session cookie.
var ErrNoSession = fmt.Errorf("%w: no session cookie", autherrors.ErrSessionInvalid)

// Exchanger trades credentials for an upstream identity. identity.Client implements it.
type Exchanger interface {
	Login(ctx context.Context, creds identity.Credentials) (*identity.LoginResult, error)
}

// Refresher obtains a new token pair for a session. No upstream refresh endpoint is
// known, so none is configured by default.
type Refresher interface {
	Refresh(ctx context.Context, s *Session) (identity.TokenPair, error)
}

// Config is the slice of configuration the store reads.
type Config interface {
	config.SessionConfig
	config.CookieConfig
}

type StoreOption func(*Store)

func WithRefresher(r Refresher) StoreOption {
	return func(s *Store) {
		s.refresher = r
	}
}

func WithRevocation(r revocation.Repo) StoreOption {
	return func(s *Store) {
		s.revoked = r
	}
}

func WithNowFunc(f func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = f
	}
}

func WithSigner(signer Signer) StoreOption {
	return func(s *Store) {
		s.signer = signer
	}
}

// Store is the only component that creates or mutates sessions.
type Store struct {
	exchanger  Exchanger
	refresher  Refresher
	revoked    revocation.Repo
	signer     Signer
	relayer    *cookies.Relayer
	refreshTTL time.Duration

	issuer     string
	maxAge     time.Duration
	updateAge  time.Duration
	cookieName string
	cookieOpts cookies.Options
	nowFunc    func() time.Time
}

func NewStore(exchanger Exchanger, cfg Config, opts ...StoreOption) (*Store, error) {
	if exchanger == nil {
		return nil, fmt.Errorf("session: exchanger is required")
	}
	s := &Store{
		exchanger:  exchanger,
		relayer:    cookies.NewRelayer(cfg.GetRefreshCookieDefaultTTL()),
		refreshTTL: cfg.GetRefreshCookieDefaultTTL(),
		issuer:     cfg.GetSessionIssuer(),
		maxAge:     cfg.GetSessionMaxAge(),
		updateAge:  cfg.GetSessionUpdateAge(),
		cookieName: cfg.GetSessionCookieName(),
		cookieOpts: cookies.Options{
			Domain:   cfg.GetCookieDomain(),
			SameSite: cfg.GetCookieSameSite(),
			Secure:   cfg.GetSecureCookies(),
			HttpOnly: true,
		},
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.signer == nil {
		signer, err := NewHMACSigner(cfg.GetSessionSecret())
		if err != nil {
			return nil, err
		}
		s.signer = signer
	}
	return s, nil
}

func (s *Store) CookieName() string {
	return s.cookieName
}

// Login exchanges creds upstream, relays the refresh-token cookie into w (when w is
// non-nil) and returns a newly minted session. The steps run strictly in order.
func (s *Store) Login(ctx context.Context, w http.ResponseWriter, creds identity.Credentials) (*Session, error) {
	result, err := s.exchanger.Login(ctx, creds)
	if err != nil {
		metrics.RecordLogin(autherrors.Reason(err))
		return nil, err
	}

	var relayed string
	if w != nil {
		relayed, _ = s.relayer.Relay(result.Header, w)
	} else if d, ok := s.relayer.Extract(result.Header); ok {
		relayed = d.Value
	}

	refresh := result.Tokens.RefreshToken
	if refresh == "" {
		refresh = relayed
	}
	if refresh == "" {
		metrics.RecordLogin("protocol")
		return nil, autherrors.Wrapf(autherrors.ErrProtocol, "[session Login] upstream issued no refresh token")
	}
	if w != nil && relayed != "" && relayed != refresh {
		s.alignRefreshCookie(w, result.Header, refresh)
	}

	now := s.nowFunc()
	sess := &Session{
		ID:           uuid.NewString(),
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: refresh,
		IssuedAt:     now,
		ExpiresAt:    now.Add(s.maxAge),
	}
	metrics.RecordLogin("success")
	log.Info().Str("user", sess.User.ID).Str("session", sess.ID).Msg("session created")
	return sess, nil
}

// alignRefreshCookie re-issues the relayed refresh-token cookie carrying the session's
// refresh token, keeping the upstream attributes.
func (s *Store) alignRefreshCookie(w http.ResponseWriter, upstream http.Header, refresh string) {
	d, ok := s.relayer.Extract(upstream)
	if !ok {
		return
	}
	log.Debug().Msg("upstream refresh cookie differs from body token, relaying body token")
	d.Value = refresh
	cookies.Set(w, d.Cookie(s.refreshTTL))
}

func (s *Store) Encode(sess *Session) (string, error) {
	if sess == nil || sess.User.ID == "" {
		return "", fmt.Errorf("session: cannot encode a session without a user")
	}
	return s.signer.Sign(sess.claims(s.issuer))
}

// Decode verifies the token's signature, issuer and expiry, validates the payload
// and checks revocation. Every failure is an ErrSessionInvalid.
func (s *Store) Decode(ctx context.Context, token string) (*Session, error) {
	sess, err := s.decode(ctx, token)
	if err != nil {
		metrics.RecordSessionDecodeFailure(autherrors.Reason(err))
		return nil, err
	}
	return sess, nil
}

func (s *Store) decode(ctx context.Context, token string) (*Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, s.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{s.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.nowFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.Wrapf(autherrors.ErrSessionExpired, "[session Decode] %v", err)
		}
		return nil, autherrors.Wrapf(autherrors.ErrSessionInvalid, "[session Decode] %v", err)
	}
	if err := validateClaims(claims); err != nil {
		return nil, autherrors.Wrapf(autherrors.ErrSessionInvalid, "[session Decode] %v", err)
	}
	if claims.Subject != claims.User.ID {
		return nil, autherrors.Wrapf(autherrors.ErrSessionInvalid, "[session Decode] subject does not match user")
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// fail closed
			return nil, autherrors.Wrapf(autherrors.ErrSessionInvalid, "[session Decode] revocation lookup: %v", err)
		}
		if revoked {
			return nil, autherrors.Wrapf(autherrors.ErrSessionRevoked, "[session Decode] session %s", claims.ID)
		}
	}
	return fromClaims(claims), nil
}

// FromRequest decodes the session cookie on r. A missing cookie is ErrNoSession.
func (s *Store) FromRequest(r *http.Request) (*Session, error) {
	ck, err := r.Cookie(s.cookieName)
	if err != nil || ck.Value == "" {
		return nil, ErrNoSession
	}
	return s.Decode(r.Context(), ck.Value)
}

// Write sets the session cookie on w, living until the session expires.
func (s *Store) Write(w http.ResponseWriter, r *http.Request, sess *Session) error {
	token, err := s.Encode(sess)
	if err != nil {
		return err
	}
	ttl := sess.ExpiresAt.Sub(s.nowFunc())
	if ttl <= 0 {
		return autherrors.Wrapf(autherrors.ErrSessionExpired, "session")
	}
	cookies.Set(w, cookies.BuildCookie(s.cookieName, token, s.options(r, ttl)))
	return nil
}

// Clear expires the session cookie only.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) {
	cookies.Set(w, cookies.BuildDeletionCookie(s.cookieName, s.options(r, 0)))
}

// Touch re-issues sess with a fresh expiry once it is older than the update age.
// It returns the original session and false when no rotation is due.
func (s *Store) Touch(sess *Session) (*Session, bool) {
	now := s.nowFunc()
	if now.Sub(sess.IssuedAt) < s.updateAge {
		return sess, false
	}
	touched := *sess
	touched.IssuedAt = now
	touched.ExpiresAt = now.Add(s.maxAge)
	return &touched, true
}

// Logout revokes the request's session, if any, and clears every auth cookie.
func (s *Store) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var revokeErr error
	if sess, err := s.FromRequest(r); err == nil && s.revoked != nil {
		if revokeErr = s.revoked.Revoke(ctx, sess.ID, sess.ExpiresAt); revokeErr == nil {
			log.Info().Str("user", sess.User.ID).Str("session", sess.ID).Msg("session revoked")
		}
	}

	s.Clear(w, r)
	for _, name := range []string{cookies.RefreshTokenCookie, cookies.AccessTokenCookie, cookies.AuthReadyCookie} {
		cookies.Set(w, cookies.BuildDeletionCookie(name, s.options(r, 0)))
	}
	if revokeErr != nil {
		return autherrors.Wrapf(revokeErr, "[session Logout] revoke")
	}
	return nil
}

// Refresh obtains a new token pair through the configured Refresher.
func (s *Store) Refresh(ctx context.Context, sess *Session) (*Session, error) {
	if s.refresher == nil {
		return nil, autherrors.Wrapf(autherrors.ErrRefreshUnsupported, "[session Refresh]")
	}
	pair, err := s.refresher.Refresh(ctx, sess)
	if err != nil {
		return nil, autherrors.Wrapf(err, "[session Refresh]")
	}
	if pair.AccessToken == "" {
		return nil, autherrors.Wrapf(autherrors.ErrProtocol, "[session Refresh] empty access token")
	}
	now := s.nowFunc()
	refreshed := *sess
	refreshed.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		refreshed.RefreshToken = pair.RefreshToken
	}
	refreshed.IssuedAt = now
	refreshed.ExpiresAt = now.Add(s.maxAge)
	return &refreshed, nil
}

func (s *Store) options(r *http.Request, ttl time.Duration) cookies.Options {
	o := s.cookieOpts
	o.Secure = o.Secure || cookies.IsSecureRequest(r)
	o.TTL = ttl
	return o
}
