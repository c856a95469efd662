package portstest

import "context"

// Executor records every call and returns Out/Err. OnCall, when set, runs
// before returning and can create files the real tool would have written.
type Executor struct {
	Calls  []Call
	Out    string
	Err    error
	OnCall func(name string, args []string) error
}

type Call struct {
	Name string
	Args []string
}

func (e *Executor) Execute(_ context.Context, name string, args ...string) (string, error) {
	e.Calls = append(e.Calls, Call{Name: name, Args: append([]string(nil), args...)})
	if e.OnCall != nil {
		if err := e.OnCall(name, args); err != nil {
			return "", err
		}
	}
	return e.Out, e.Err
}
