// Package session holds the state of one upload session: the staged
// statement, the in-flight request, and the last outcome. Every transition
// is a method on a State value that returns the next State, so each one can
// be exercised without a terminal or a network.
package session

import "git.sr.ht/~jakintosh/feescan/internal/core"

// Request identifies a single submission of a statement.
type Request struct {
	ID        uint64
	Statement core.Statement
}

// State is the complete upload-session state.
type State struct {
	Statement *core.Statement      // staged file, nil until a valid selection
	Loading   bool                 // a request is in flight
	Err       string               // current error message, empty when none
	Result    *core.AnalysisResult // last successful report
	Pending   *Request             // the request Loading refers to

	lastID uint64
}

// HasStatement reports whether a file is staged.
func (s State) HasStatement() bool {
	return s.Statement != nil
}

// IsPending reports whether id is the request currently in flight.
func (s State) IsPending(id uint64) bool {
	return s.Loading && s.Pending != nil && s.Pending.ID == id
}

// Select stages candidate if its extension is supported. A rejected
// candidate leaves the staged file alone; an empty one only clears the error.
// The previous result is kept until the next submission.
func (s State) Select(candidate core.Statement) State {
	s.Err = ""
	if candidate.IsZero() {
		return s
	}
	if err := candidate.Validate(); err != nil {
		s.Err = core.ErrorMessage(err)
		return s
	}
	staged := candidate
	s.Statement = &staged
	return s
}

// Submit starts a request for the staged statement. It returns a nil
// Request when nothing should be sent: no file is staged (an error is set),
// or a request is already in flight (the state is returned unchanged).
func (s State) Submit() (State, *Request) {
	if s.Loading {
		return s, nil
	}
	if s.Statement == nil {
		s.Err = core.NoStatementMessage
		return s, nil
	}
	s.lastID++
	req := &Request{ID: s.lastID, Statement: *s.Statement}
	s.Loading = true
	s.Err = ""
	s.Result = nil
	s.Pending = req
	return s, req
}

// Complete records the outcome of request id. Outcomes for any request other
// than the pending one are stale and ignored.
func (s State) Complete(id uint64, result *core.AnalysisResult, err error) State {
	if !s.IsPending(id) {
		return s
	}
	s.Loading = false
	s.Pending = nil
	if err != nil {
		s.Err = core.ErrorMessage(err)
		return s
	}
	s.Result = result
	s.Err = ""
	return s
}

// Cancel abandons the pending request. Its eventual completion is stale.
func (s State) Cancel() State {
	if !s.Loading {
		return s
	}
	s.Loading = false
	s.Pending = nil
	s.Err = core.CancelledMessage
	return s
}
