package assert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotNil(t *testing.T) {
	require.Panics(t, func() { NotNil(nil) })
	require.NotPanics(t, func() { NotNil(struct{}{}) })
}

func TestNotEmptyStr(t *testing.T) {
	require.Panics(t, func() { NotEmptyStr("") })
	require.NotPanics(t, func() { NotEmptyStr("www.gradescope.com") })
}

func TestPositive(t *testing.T) {
	require.Panics(t, func() { Positive("retries", 0) })
	require.Panics(t, func() { Positive("timeout", -time.Second) })
	require.Panics(t, func() { Positive("rate", -0.5) })
	require.NotPanics(t, func() { Positive("backoff", time.Millisecond) })
	require.NotPanics(t, func() { Positive("retries", 3) })
}
