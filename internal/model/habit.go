package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrInvalidCount = errors.New("model: invalid habit count")
	ErrInvalidGoal  = errors.New("model: invalid habit goal")
)

// Goal is the parsed target of a habit. A goal whose text carried no leading
// integer is kept as an invalid goal rather than coerced to a number.
type Goal struct {
	Value int
	Valid bool
}

func GoalOf(v int) Goal {
	return Goal{Value: v, Valid: true}
}

// ParseGoal reads the leading integer of text: optional leading whitespace,
// an optional sign, then decimal digits. Anything after the digits is ignored,
// so "8 glasses" is 8 and "3.7" is 3.
func ParseGoal(text string) Goal {
	s := strings.TrimLeftFunc(text, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return Goal{}
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return Goal{}
	}
	return GoalOf(v)
}

func (g Goal) String() string {
	if !g.Valid {
		return "?"
	}
	return strconv.Itoa(g.Value)
}

func (g Goal) MarshalJSON() ([]byte, error) {
	if !g.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(g.Value)), nil
}

func (g *Goal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = Goal{}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGoal, data)
	}
	if v, err := n.Int64(); err == nil && v >= math.MinInt && v <= math.MaxInt {
		*g = GoalOf(int(v))
		return nil
	}
	// Fractional numbers from hand-edited stores are truncated toward zero.
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return fmt.Errorf("%w: %s", ErrInvalidGoal, data)
	}
	*g = GoalOf(int(f))
	return nil
}

type Habit struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Goal  Goal   `json:"goal"`
	Count int    `json:"count"`
}

// Complete reports whether the count has reached the goal. An invalid goal
// never compares as reached.
func (h Habit) Complete() bool {
	if !h.Goal.Valid {
		return false
	}
	return h.Count >= h.Goal.Value
}

// Progress is the completed fraction clamped to [0, 1].
func (h Habit) Progress() float64 {
	if !h.Goal.Valid || h.Goal.Value <= 0 {
		if h.Complete() {
			return 1
		}
		return 0
	}
	p := float64(h.Count) / float64(h.Goal.Value)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

func (h Habit) Incremented() Habit {
	h.Count++
	return h
}

func (h Habit) Reset() Habit {
	h.Count = 0
	return h
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: habit id is required")
	}
	if h.Name == "" {
		return errors.New("model: habit name is required")
	}
	if h.Count < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, h.Count)
	}
	return nil
}
