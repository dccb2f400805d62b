package errorx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	base := errors.New("claim cooling down")
	err := WithDetails(base, State, map[string]any{"hoursRemaining": 3})

	require.Equal(t, State, KindOf(err))
	require.Equal(t, State, KindOf(fmt.Errorf("attempt claim: %w", err)))
	require.ErrorIs(t, err, base)
	require.Equal(t, 3, DetailsOf(err)["hoursRemaining"])
	require.Equal(t, http.StatusTooManyRequests, KindOf(err).StatusCode())

	require.Equal(t, Service, KindOf(errors.New("boom")))
	require.Equal(t, Upstream, KindOf(fmt.Errorf("rpc: %w", context.DeadlineExceeded)))
	require.Nil(t, Wrap(nil, Validation))
}

func TestStatusCode(t *testing.T) {
	cases := map[Kind]int{
		Validation:   http.StatusBadRequest,
		Authn:        http.StatusUnauthorized,
		NotExist:     http.StatusNotFound,
		Conflict:     http.StatusConflict,
		Upstream:     http.StatusServiceUnavailable,
		RateLimiting: http.StatusTooManyRequests,
		Service:      http.StatusInternalServerError,
	}
	for kind, code := range cases {
		require.Equal(t, code, kind.StatusCode(), kind.String())
	}
}
