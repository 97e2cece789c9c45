package level

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
)

// Stats are the values a completion rule can read.
type Stats struct {
	Credits      int
	Defeated     int
	BossDefeated bool
	Frame        uint64
}

// Rule is a compiled completion predicate such as "credits >= 20".
type Rule struct {
	source   string
	compiled *tengo.Compiled
}

const ruleResultVar = "__complete"

// CompileRule compiles a tengo boolean expression over credits, defeated,
// boss_defeated and frame.
func CompileRule(expr string) (*Rule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("level: empty completion rule")
	}

	script := tengo.NewScript([]byte(fmt.Sprintf("%s := bool(%s)", ruleResultVar, expr)))
	_ = script.Add("credits", 0)
	_ = script.Add("defeated", 0)
	_ = script.Add("boss_defeated", false)
	_ = script.Add("frame", 0)

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("level: compile rule %q: %w", expr, err)
	}
	return &Rule{source: expr, compiled: compiled}, nil
}

func (r *Rule) String() string {
	if r == nil {
		return ""
	}
	return r.source
}

// Eval runs the rule against s.
func (r *Rule) Eval(s Stats) (bool, error) {
	if r == nil || r.compiled == nil {
		return false, fmt.Errorf("level: nil rule")
	}
	if err := r.compiled.Set("credits", s.Credits); err != nil {
		return false, err
	}
	if err := r.compiled.Set("defeated", s.Defeated); err != nil {
		return false, err
	}
	if err := r.compiled.Set("boss_defeated", s.BossDefeated); err != nil {
		return false, err
	}
	if err := r.compiled.Set("frame", int64(s.Frame)); err != nil {
		return false, err
	}
	if err := r.compiled.Run(); err != nil {
		return false, fmt.Errorf("level: run rule %q: %w", r.source, err)
	}
	return r.compiled.Get(ruleResultVar).Bool(), nil
}
