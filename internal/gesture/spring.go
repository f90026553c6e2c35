// ABOUTME: Spring-driven motion used for row offset animations.
// ABOUTME: Steps a harmonica spring at a fixed frame rate for however much wall time has passed.
package gesture

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Spring defaults give a critically damped settle of roughly 400ms for a short snap-back.
const (
	DefaultFPS       = 60
	DefaultFrequency = 18.0
	DefaultDamping   = 1.0
)

// A motion is at rest once it is this close to its target and this slow.
const (
	restDistance = 0.5
	restVelocity = 1.0
)

// maxSteps bounds the work done by a single Advance after a long pause.
const maxSteps = 10 * DefaultFPS

type motion struct {
	spring   harmonica.Spring
	frame    time.Duration
	target   float64
	velocity float64
	last     time.Time
}

func newMotion(fps int, frequency, damping, target float64, start time.Time) *motion {
	return &motion{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		frame:  time.Second / time.Duration(fps),
		target: target,
		last:   start,
	}
}

// step advances pos by the whole frames elapsed since the last step and reports
// whether the motion has come to rest on its target.
func (m *motion) step(pos float64, now time.Time) (float64, bool) {
	frames := int(math.Round(float64(now.Sub(m.last)) / float64(m.frame)))
	if frames <= 0 {
		return pos, false
	}
	m.last = m.last.Add(time.Duration(frames) * m.frame)
	if frames > maxSteps {
		frames = maxSteps
	}

	for i := 0; i < frames; i++ {
		pos, m.velocity = m.spring.Update(pos, m.velocity, m.target)
		if m.atRest(pos) {
			return m.target, true
		}
	}
	return pos, false
}

func (m *motion) atRest(pos float64) bool {
	return math.Abs(m.target-pos) < restDistance && math.Abs(m.velocity) < restVelocity
}
