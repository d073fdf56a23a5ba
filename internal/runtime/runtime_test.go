package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestControllerAcquireRelease(t *testing.T) {
	limits := NewLimits(1, 1)
	controller := NewController(limits)

	require.Equal(t, limits, controller.LimitsSnapshot())

	require.NoError(t, controller.AcquireComparison(context.Background()))
	controller.ReleaseComparison()

	require.NoError(t, controller.Parallel(context.Background(), 1, func(int) {}))
}
