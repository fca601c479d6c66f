package physics

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/san-kum/moonsim/internal/dynamo"
)

var axisPatterns = [3]*regexp.Regexp{
	regexp.MustCompile(`x=(-?[0-9]+)`),
	regexp.MustCompile(`y=(-?[0-9]+)`),
	regexp.MustCompile(`z=(-?[0-9]+)`),
}

type ParseOptions struct {
	// SkipBlank drops empty and whitespace-only lines. When false every
	// line produced by splitting on '\n' must describe a moon, including
	// the empty one after a trailing newline.
	SkipBlank bool
}

// ParseMoons reads one moon per line. Each line must carry x=, y= and z=
// integer fields in any order. Velocities start at zero and ids count the
// parsed moons from 1.
func ParseMoons(input string, opts ParseOptions) (dynamo.System, error) {
	var moons dynamo.System

	for n, line := range strings.Split(input, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if opts.SkipBlank && strings.TrimSpace(line) == "" {
			continue
		}

		pos, err := parseLine(line)
		if err != nil {
			return nil, &dynamo.LineError{Line: n + 1, Text: line, Wrapped: err}
		}
		moons = append(moons, dynamo.Body{ID: len(moons) + 1, Pos: pos})
	}

	if len(moons) == 0 {
		return nil, dynamo.ErrEmptyInput
	}
	return moons, nil
}

func parseLine(line string) (dynamo.Vec3, error) {
	var c [3]int64
	for axis, re := range axisPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return dynamo.Vec3{}, fmt.Errorf("%w: missing %c field", dynamo.ErrMalformedLine, "xyz"[axis])
		}
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return dynamo.Vec3{}, fmt.Errorf("%w: %v", dynamo.ErrMalformedLine, err)
		}
		c[axis] = v
	}
	return dynamo.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func ParseFile(path string, opts ParseOptions) (dynamo.System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	moons, err := ParseMoons(string(data), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return moons, nil
}
