package world

import "time"

// DayCycle is a TimeProvider driven by wall-clock elapsed time: Angle
// sweeps [0, 1) once per dayLength, starting at whatever angle the world
// was constructed with.
type DayCycle struct {
	start      time.Time
	dayLength  time.Duration
	startAngle float64
	now        func() time.Time
}

// NewDayCycle builds a DayCycle beginning at startAngle (0.5 == noon) and
// advancing one full cycle every dayLength.
func NewDayCycle(startAngle float64, dayLength time.Duration) *DayCycle {
	if dayLength <= 0 {
		dayLength = 20 * time.Minute
	}
	return &DayCycle{
		start:      time.Now(),
		dayLength:  dayLength,
		startAngle: startAngle,
		now:        time.Now,
	}
}

// Angle implements TimeProvider.
func (d *DayCycle) Angle() float64 {
	elapsed := d.now().Sub(d.start)
	frac := float64(elapsed) / float64(d.dayLength)
	angle := d.startAngle + frac
	angle -= float64(int(angle))
	if angle < 0 {
		angle += 1
	}
	return angle
}
