package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayCycleAdvancesAndWraps(t *testing.T) {
	base := time.Unix(0, 0)
	d := NewDayCycle(0.5, 10*time.Minute)
	d.start = base
	d.now = func() time.Time { return base }
	require.InDelta(t, 0.5, d.Angle(), 1e-9)

	d.now = func() time.Time { return base.Add(5 * time.Minute) }
	require.InDelta(t, 0.0, d.Angle(), 1e-9)

	d.now = func() time.Time { return base.Add(2*time.Minute + 30*time.Second) }
	require.InDelta(t, 0.75, d.Angle(), 1e-9)
}
