package entropy

import (
	"errors"
	"strings"

	"github.com/san-kum/entropywalk/internal/walk"
)

// ErrExhausted is returned by a non-looping Replay once its script runs out.
var ErrExhausted = errors.New("entropy: replay script exhausted")

// Replay plays back a fixed direction script.
type Replay struct {
	dirs []walk.Direction
	pos  int
	loop bool
}

func NewReplay(dirs []walk.Direction, loop bool) *Replay {
	cp := make([]walk.Direction, len(dirs))
	copy(cp, dirs)
	return &Replay{dirs: cp, loop: loop}
}

// ParseReplay reads a script such as "UDLR" or "up,down,left,right".
func ParseReplay(script string, loop bool) (*Replay, error) {
	var tokens []string
	if strings.ContainsAny(script, ", ") {
		tokens = strings.FieldsFunc(script, func(r rune) bool { return r == ',' || r == ' ' })
	} else {
		tokens = strings.Split(script, "")
	}

	dirs := make([]walk.Direction, 0, len(tokens))
	for _, tok := range tokens {
		d, err := walk.ParseDirection(tok)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return NewReplay(dirs, loop), nil
}

func (r *Replay) Name() string { return "replay" }

func (r *Replay) NextDirection() (walk.Direction, error) {
	if r.pos >= len(r.dirs) {
		if !r.loop || len(r.dirs) == 0 {
			return 0, walk.Unavailable(r.Name(), ErrExhausted)
		}
		r.pos = 0
	}
	d := r.dirs[r.pos]
	r.pos++
	return d, nil
}
