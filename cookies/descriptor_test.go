package cookies_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/docdash/cookies"
	"github.com/stretchr/testify/require"
)

func TestParseSetCookie(t *testing.T) {
	future := time.Date(2030, time.January, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		header    string
		wantValue string
		check     func(t *testing.T, d cookies.Descriptor)
	}{
		{
			name:      "all attributes",
			header:    "refresh-token=R; Max-Age=604800; Path=/; Domain=.upstream.example.com; Secure; HttpOnly; SameSite=Strict",
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.True(t, d.HasMaxAge)
				require.Equal(t, 604800, d.MaxAge)
				require.Equal(t, "/", d.Path)
				require.Equal(t, "upstream.example.com", d.Domain)
				require.True(t, d.Secure)
				require.True(t, d.HttpOnly)
				require.Equal(t, http.SameSiteStrictMode, d.SameSite)
				require.Len(t, d.Attributes, 6)
			},
		},
		{
			name:      "max-age wins over expires regardless of order",
			header:    "refresh-token=R; Expires=" + future.Format(http.TimeFormat) + "; Max-Age=3600",
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.Equal(t, time.Hour, d.Lifetime(time.Now()))
				require.True(t, d.Expires.IsZero())
			},
		},
		{
			name:      "expires only",
			header:    "refresh-token=R; Expires=" + future.Format(http.TimeFormat),
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.False(t, d.HasMaxAge)
				require.True(t, future.Equal(d.Expires))
			},
		},
		{
			name:      "dashed expires format",
			header:    "refresh-token=R; expires=Wed, 02-Jan-2030 15:04:05 GMT",
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.True(t, future.Equal(d.Expires))
			},
		},
		{
			name:      "no lifetime falls back to seven days",
			header:    "refresh-token=R",
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.Equal(t, cookies.DefaultLifetime, d.Lifetime(time.Now()))
			},
		},
		{
			name:      "malformed attributes are skipped individually",
			header:    "refresh-token=R; Max-Age=abc; Expires=tomorrow; SameSite=sometimes; Path=relative; Path=/api",
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.False(t, d.HasMaxAge)
				require.True(t, d.Expires.IsZero())
				require.Equal(t, http.SameSiteLaxMode, d.SameSite)
				require.Equal(t, "/api", d.Path)
				require.Len(t, d.Attributes, 1)
			},
		},
		{
			name:      "unknown attributes are ignored",
			header:    "refresh-token=R; Priority=High; Partitioned; HttpOnly",
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.Len(t, d.Attributes, 1)
				require.True(t, d.HttpOnly)
			},
		},
		{
			name:      "httponly forced without the attribute",
			header:    "refresh-token=R; Path=/",
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.True(t, d.HttpOnly)
			},
		},
		{
			name:      "explicit httponly=false overrides",
			header:    "refresh-token=R; HttpOnly=false",
			wantValue: "R",
			check: func(t *testing.T, d cookies.Descriptor) {
				require.False(t, d.HttpOnly)
			},
		},
		{
			name:      "quoted value",
			header:    `refresh-token="abc.def"; Path=/`,
			wantValue: "abc.def",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := cookies.ParseSetCookie(tt.header)
			require.NoError(t, err)
			require.Equal(t, "refresh-token", d.Name)
			require.Equal(t, tt.wantValue, d.Value)
			if tt.check != nil {
				tt.check(t, d)
			}
		})
	}
}

func TestParseSetCookie_Malformed(t *testing.T) {
	for _, header := range []string{"", "novalue", "=R; Path=/", " ; HttpOnly"} {
		_, err := cookies.ParseSetCookie(header)
		require.ErrorIs(t, err, cookies.ErrMalformedCookie, "header %q", header)
	}
}

func TestDescriptor_Cookie(t *testing.T) {
	t.Run("max-age relayed, domain dropped", func(t *testing.T) {
		d, err := cookies.ParseSetCookie("refresh-token=R; Max-Age=604800; HttpOnly; Path=/; Domain=upstream.example.com")
		require.NoError(t, err)

		c := d.Cookie(cookies.DefaultLifetime)
		require.Equal(t, 604800, c.MaxAge)
		require.True(t, c.HttpOnly)
		require.Equal(t, "/", c.Path)
		require.Empty(t, c.Domain)
	})

	t.Run("zero max-age deletes", func(t *testing.T) {
		d, err := cookies.ParseSetCookie("refresh-token=; Max-Age=0")
		require.NoError(t, err)
		require.Equal(t, -1, d.Cookie(cookies.DefaultLifetime).MaxAge)
	})

	t.Run("default lifetime", func(t *testing.T) {
		d, err := cookies.ParseSetCookie("refresh-token=R")
		require.NoError(t, err)
		require.Equal(t, 3600, d.Cookie(time.Hour).MaxAge)
	})

	t.Run("samesite none forces secure", func(t *testing.T) {
		d, err := cookies.ParseSetCookie("refresh-token=R; SameSite=None")
		require.NoError(t, err)
		require.True(t, d.Cookie(0).Secure)
	})
}
