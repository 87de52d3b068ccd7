package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistinctPositiveKeepsFirstSeenOrder(t *testing.T) {
	require.Nil(t, distinctPositive(nil))
	require.Equal(t, []int64{3, 1, 7}, distinctPositive([]int64{3, 0, 1, 3, -4, 7, 1}))
}

func TestDistinctKeysTrimsBlanks(t *testing.T) {
	require.Equal(t, []string{"/events/1", "/events/2"}, distinctKeys([]string{" /events/1", "", "/events/2", "/events/1 ", "   "}))
	require.Empty(t, distinctKeys([]string{" "}))
}
