// Package replsession implements the per-agent persistent code-execution
// environment described in §4.4 of the core spec: a long-lived REPL whose
// globals persist across steps and which exposes llm_query/FINAL builtins.
//
// Go has no built-in REPL or eval. The teacher itself doesn't embed one
// either — this is the one component the core spec needs that nothing in
// the five candidate teacher repos supplies. Per SPEC_FULL.md's DOMAIN
// STACK, this is grounded on itsmostafa/goralph (other_examples/manifests),
// a Go re-implementation of this exact RLM design, which embeds
// github.com/dop251/goja (a pure-Go ECMAScript VM) for precisely this
// reason: a long-lived, in-process, native-value execution environment.
package replsession

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// ExecResult is the result of one Execute call (§4.4).
type ExecResult struct {
	// Output is the combined captured stdout/stderr, plus any uncaught
	// exception's formatted message, for this single execution.
	Output string
	// HasError is true when the snippet raised an uncaught exception.
	HasError bool
	// Terminal holds the value passed to FINAL, if any execution (this one
	// or an earlier one in the same session) has called it.
	Terminal Option
}

// Option represents Rust-style Option<Any> for the terminal slot: Some(v) or
// None, distinguishing "FINAL(None) was called" from "FINAL was never
// called" (§8 boundary case).
type Option struct {
	Set   bool
	Value any
}

// Session is a per-agent REPLSession. Globals persist across Execute calls
// for the lifetime of the session; it is owned 1:1 by its agent run and is
// never shared across runs (§3, §5).
type Session struct {
	vm       *goja.Runtime
	terminal Option
	out      strings.Builder
}

// New creates a fresh session with an empty global/local environment.
func New() *Session {
	return &Session{vm: goja.New()}
}

// InstallBuiltins seeds FINAL, print/println, and any host-provided tool
// bindings into the session's globals. llmQuery is supplied separately by
// InstallLLMQuery because its depth-gating behavior (§4.5) depends on state
// the REPL package itself does not own.
func (s *Session) InstallBuiltins(tools map[string]any) error {
	if err := s.vm.Set("FINAL", s.finalBuiltin()); err != nil {
		return err
	}
	if err := s.vm.Set("print", s.printBuiltin(false)); err != nil {
		return err
	}
	if err := s.vm.Set("println", s.printBuiltin(true)); err != nil {
		return err
	}
	for name, fn := range tools {
		if err := s.vm.Set(name, fn); err != nil {
			return fmt.Errorf("replsession: installing tool %q: %w", name, err)
		}
	}
	return nil
}

// InstallLLMQuery installs the llm_query builtin. fn is called synchronously
// with the child's context string and must return the child's terminal
// value (already unwrapped to a native Go value) or an error. The error, if
// non-nil, is raised inside the REPL as a catchable exception (§4.4, §4.5).
func (s *Session) InstallLLMQuery(fn func(context string) (any, error)) error {
	return s.vm.Set("llm_query", func(call goja.FunctionCall) goja.Value {
		ctxArg := call.Argument(0).String()
		result, err := fn(ctxArg)
		if err != nil {
			panic(s.vm.ToValue(err.Error()))
		}
		return s.vm.ToValue(result)
	})
}

func (s *Session) finalBuiltin() func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		var v any
		if len(call.Arguments) > 0 {
			v = call.Argument(0).Export()
		}
		s.terminal = Option{Set: true, Value: v}
		return goja.Undefined()
	}
}

func (s *Session) printBuiltin(newline bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		s.out.WriteString(strings.Join(parts, " "))
		if newline {
			s.out.WriteString("\n")
		}
		return goja.Undefined()
	}
}

// Execute compiles and runs source as a script body against the session's
// persistent globals/locals. All output produced by print/println plus any
// uncaught exception's formatted message are captured into Output. State
// mutations (variables declared without var/let/const scoping, and anything
// assigned onto the global object) persist to subsequent Execute calls,
// since all calls share the same underlying *goja.Runtime (§9: "implementations
// must not reset the environment per step").
func (s *Session) Execute(source string) ExecResult {
	s.out.Reset()

	_, err := s.vm.RunString(source)

	result := ExecResult{
		HasError: err != nil,
		Terminal: s.terminal,
	}

	if err != nil {
		result.Output = s.out.String() + formatException(err)
	} else {
		result.Output = s.out.String()
	}
	return result
}

// formatException renders a goja execution error (including any value
// raised via llm_query's error path) the way the captured output should show
// it: as a traceback-like block, so the model sees it is an error.
func formatException(err error) string {
	if exc, ok := err.(*goja.Exception); ok {
		return fmt.Sprintf("Traceback (most recent call last):\n%s\n%s", exc.String(), exc.Value().String())
	}
	return fmt.Sprintf("Traceback (most recent call last):\n%s", err.Error())
}
