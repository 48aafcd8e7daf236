package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues("success"))
	RecordLogin("success")
	require.Equal(t, before+1, testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues("success")))

	before = testutil.ToFloat64(GuardDecisionsTotal.WithLabelValues("redirect"))
	RecordGuardDecision("redirect")
	require.Equal(t, before+1, testutil.ToFloat64(GuardDecisionsTotal.WithLabelValues("redirect")))

	before = testutil.ToFloat64(CookieRelaysTotal.WithLabelValues("absent"))
	RecordCookieRelay("absent")
	require.Equal(t, before+1, testutil.ToFloat64(CookieRelaysTotal.WithLabelValues("absent")))

	before = testutil.ToFloat64(SessionDecodeFailuresTotal.WithLabelValues("expired"))
	RecordSessionDecodeFailure("expired")
	require.Equal(t, before+1, testutil.ToFloat64(SessionDecodeFailuresTotal.WithLabelValues("expired")))
}
