// Package usage provides token/cost aggregation and budget-ceiling
// enforcement for the RLM engine. It is grounded on the teacher's
// internal/usage package (Usage/Tracker split), generalized to the additive
// monoid and global-ceiling semantics §4.1 of the core spec requires.
package usage

import "sync"

// Record is additive: field-wise sum, identity is the zero value. It
// satisfies the monoid laws (associativity, commutativity, zero identity)
// required by §8's "Laws" — Add never mutates its arguments.
type Record struct {
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	TotalTokens      int64   `json:"total_tokens"`
	CachedTokens     int64   `json:"cached_tokens"`
	ReasoningTokens  int64   `json:"reasoning_tokens"`
	Cost             float64 `json:"cost"`
}

// Add returns the field-wise sum of r and other. It is the monoid operation;
// Zero is its identity.
func (r Record) Add(other Record) Record {
	return Record{
		PromptTokens:     r.PromptTokens + other.PromptTokens,
		CompletionTokens: r.CompletionTokens + other.CompletionTokens,
		TotalTokens:      r.TotalTokens + other.TotalTokens,
		CachedTokens:     r.CachedTokens + other.CachedTokens,
		ReasoningTokens:  r.ReasoningTokens + other.ReasoningTokens,
		Cost:             r.Cost + other.Cost,
	}
}

// Zero is the additive identity of Record.
var Zero = Record{}

// BudgetKind identifies which ceiling was exceeded.
type BudgetKind string

const (
	BudgetCost       BudgetKind = "cost"
	BudgetPrompt     BudgetKind = "prompt"
	BudgetCompletion BudgetKind = "completion"
)

// BudgetExceededError is raised by Tracker.CheckBudgets when a configured
// ceiling has been crossed. It aborts the issuing agent (§7).
type BudgetExceededError struct {
	Kind  BudgetKind
	Total Record
}

func (e *BudgetExceededError) Error() string {
	switch e.Kind {
	case BudgetCost:
		return "budget exceeded: total cost"
	case BudgetPrompt:
		return "budget exceeded: total prompt tokens"
	case BudgetCompletion:
		return "budget exceeded: total completion tokens"
	default:
		return "budget exceeded"
	}
}

// Caps is the subset of config.Config that Tracker needs to check budgets
// against. Declared locally (rather than importing config) to keep this leaf
// package free of dependencies, per the component dependency order in
// SPEC_FULL.md's module map.
type Caps struct {
	MaxMoneySpent       float64
	MaxCompletionTokens int64
	MaxPromptTokens     int64
}

// Tracker is the process-wide singleton aggregator described in §4.1. All
// mutation is serialized by mu; Total returns a snapshot copy so callers
// never observe a torn read.
type Tracker struct {
	mu    sync.Mutex
	total Record
}

// NewTracker returns a Tracker starting from the zero record.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add aggregates usage into the process-wide total.
func (t *Tracker) Add(r Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = t.total.Add(r)
}

// Total returns a snapshot of the cumulative usage.
func (t *Tracker) Total() Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// TotalPromptTokens returns the cumulative prompt token count.
func (t *Tracker) TotalPromptTokens() int64 {
	return t.Total().PromptTokens
}

// TotalCompletionTokens returns the cumulative completion token count.
func (t *Tracker) TotalCompletionTokens() int64 {
	return t.Total().CompletionTokens
}

// TotalCost returns the cumulative monetary cost. When no response in the
// run ever populated Cost, this is 0 and the cost cap is advisory only —
// CheckBudgets never fires BudgetCost in that case (Open Question (b),
// resolved in DESIGN.md: silent degrade-to-advisory, not refuse-to-run).
func (t *Tracker) TotalCost() float64 {
	return t.Total().Cost
}

// CheckBudgets compares the current totals against caps and returns a
// *BudgetExceededError for the first ceiling crossed (cost, then prompt,
// then completion), or nil if all are within bounds.
func (t *Tracker) CheckBudgets(caps Caps) error {
	total := t.Total()
	if caps.MaxMoneySpent > 0 && total.Cost > caps.MaxMoneySpent {
		return &BudgetExceededError{Kind: BudgetCost, Total: total}
	}
	if caps.MaxPromptTokens > 0 && total.PromptTokens > caps.MaxPromptTokens {
		return &BudgetExceededError{Kind: BudgetPrompt, Total: total}
	}
	if caps.MaxCompletionTokens > 0 && total.CompletionTokens > caps.MaxCompletionTokens {
		return &BudgetExceededError{Kind: BudgetCompletion, Total: total}
	}
	return nil
}
