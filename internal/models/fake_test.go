package models

import (
	"context"
)

// fakeDB records every statement and replays canned row sets, so the
// tests can assert on the exact SQL and arguments the layer builds.
type fakeDB struct {
	queries []string
	args    [][]any
	execs   []string
	execArg [][]any

	rows [][]map[string]any // popped per Query call
	err  error
}

func (f *fakeDB) Query(_ context.Context, query string, args ...any) ([]map[string]any, error) {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.rows) == 0 {
		return nil, nil
	}
	out := f.rows[0]
	f.rows = f.rows[1:]
	return out, nil
}

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.execs = append(f.execs, query)
	f.execArg = append(f.execArg, args)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeDB) lastQuery() string {
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeDB) lastArgs() []any {
	if len(f.args) == 0 {
		return nil
	}
	return f.args[len(f.args)-1]
}

// fakeHash is a deterministic stand-in for bcrypt.
func fakeHash(pw string) (string, error) {
	return "hashed:" + pw, nil
}
