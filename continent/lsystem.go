package continent

import (
	"math"
	"math/rand"
	"strings"
)

// lsystemRules maps a symbol to its replacement string for one rewrite pass.
type lsystemRules map[byte]string

// expandLSystem rewrites axiom for the given number of iterations, replacing
// any symbol with a rule in rules and leaving unmatched symbols untouched.
func expandLSystem(axiom string, rules lsystemRules, iterations int) string {
	s := axiom
	for i := 0; i < iterations; i++ {
		var b strings.Builder
		for j := 0; j < len(s); j++ {
			c := s[j]
			if repl, ok := rules[c]; ok {
				b.WriteString(repl)
			} else {
				b.WriteByte(c)
			}
		}
		s = b.String()
	}
	return s
}

// turtlePath is the result of interpreting an L-system program as a turtle
// walk: F draws forward, + / - turn by the branch angle, [ / ] push/pop the
// turtle state. The bracketed excursions come back out as separate strokes
// (tributaries, side-ridges) so callers can treat the trunk and branches
// differently.
type turtlePath struct {
	Main     Path
	Branches []Path
}

// walkLSystem interprets program starting at start heading headingDeg, each
// F step stepLen world units, each +/- turning angleDeg, with a small
// per-step heading jitter drawn from rng.
func walkLSystem(program string, start [2]float64, headingDeg, stepLen, angleDeg float64, rng *rand.Rand) turtlePath {
	type frame struct {
		pos        [2]float64
		heading    float64
		strokeIdx  int
	}

	pos := start
	heading := headingDeg
	strokes := []Path{{pos}}
	current := 0
	var stack []frame

	for i := 0; i < len(program); i++ {
		switch program[i] {
		case 'F':
			jitter := 0.0
			if rng != nil {
				jitter = (rng.Float64() - 0.5) * 6.0
			}
			rad := (heading + jitter) * math.Pi / 180.0
			pos = [2]float64{pos[0] + stepLen*math.Cos(rad), pos[1] + stepLen*math.Sin(rad)}
			strokes[current] = append(strokes[current], pos)
		case '+':
			heading += angleDeg
		case '-':
			heading -= angleDeg
		case '[':
			stack = append(stack, frame{pos: pos, heading: heading, strokeIdx: current})
			strokes = append(strokes, Path{pos})
			current = len(strokes) - 1
		case ']':
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pos = top.pos
			heading = top.heading
			current = top.strokeIdx
		}
	}

	return turtlePath{Main: strokes[0], Branches: strokes[1:]}
}

// pathLength returns the total Euclidean length of a polyline's segments.
func pathLength(p Path) float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		dx := p[i][0] - p[i-1][0]
		dz := p[i][1] - p[i-1][1]
		total += math.Sqrt(dx*dx + dz*dz)
	}
	return total
}

// headingTo returns the bearing in degrees from a to b.
func headingTo(a, b [2]float64) float64 {
	return math.Atan2(b[1]-a[1], b[0]-a[0]) * 180.0 / math.Pi
}
