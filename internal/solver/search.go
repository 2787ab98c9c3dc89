package solver

import (
	"errors"
	"fmt"

	"solitaire/internal/domain"
)

// Verdict is the outcome of a search.
type Verdict int8

const (
	// Unknown means the iteration budget ran out first.
	Unknown Verdict = iota
	Winable
	Lost
)

func (v Verdict) String() string {
	switch v {
	case Unknown:
		return "unknown"
	case Winable:
		return "winable"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("verdict(%d)", int8(v))
	}
}

// ParseVerdict maps a verdict name back to its Verdict.
func ParseVerdict(s string) (Verdict, bool) {
	for _, v := range []Verdict{Unknown, Winable, Lost} {
		if v.String() == s {
			return v, true
		}
	}
	return Unknown, false
}

// Result reports a verdict, the depth of the winning state when there is
// one, and how many states were expanded.
type Result struct {
	Verdict  Verdict
	Depth    int
	Expanded int
}

// Strategy selects the search algorithm.
type Strategy string

const (
	StrategyDFS      Strategy = "dfs"
	StrategyPriority Strategy = "priority"
)

var ErrUnknownStrategy = errors.New("unknown solver strategy")

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyDFS, StrategyPriority:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Options tunes a search.
type Options struct {
	// OnExpand is called once for every state taken off the frontier and
	// expanded.
	OnExpand func(State)
}

// Solve runs the named strategy on stacks. iterations only bounds the
// priority search.
func Solve(stacks []domain.Stack, strategy Strategy, iterations int) (Result, error) {
	switch strategy {
	case StrategyDFS:
		return DepthFirst(stacks, Options{}), nil
	case StrategyPriority:
		return PriorityFirst(stacks, iterations, Options{}), nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
}

// DepthFirst searches every reachable state depth-first until it finds a
// win. It has no budget and returns Lost only after exhausting the space.
func DepthFirst(stacks []domain.Stack, opts Options) Result {
	return search(NewState(stacks), &lifo{}, -1, opts)
}

// PriorityFirst expands the highest scoring state first. Each expansion
// spends one iteration; when the budget is gone the result is Unknown.
func PriorityFirst(stacks []domain.Stack, iterations int, opts Options) Result {
	if iterations < 0 {
		iterations = 0
	}
	return search(NewState(stacks), &priorityQueue{}, iterations, opts)
}

// search pops states until one is won. A negative budget is unbounded.
// The budget check runs before a state is expanded, so an exhausted budget
// always reports Unknown rather than Lost.
func search(root State, open pending, budget int, opts Options) Result {
	var res Result
	visited := make(map[string]struct{})
	open.push(root)
	for {
		st, ok := open.pop()
		if !ok {
			res.Verdict = Lost
			return res
		}
		key := st.Key()
		if _, seen := visited[key]; seen {
			continue
		}
		if st.Victory() {
			res.Verdict = Winable
			res.Depth = st.Depth
			return res
		}
		if budget >= 0 {
			budget--
			if budget <= 0 {
				res.Verdict = Unknown
				return res
			}
		}
		visited[key] = struct{}{}
		res.Expanded++
		if opts.OnExpand != nil {
			opts.OnExpand(st)
		}
		open.push(st.Successors()...)
	}
}
