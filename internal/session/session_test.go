package session

import (
	"errors"
	"testing"

	"git.sr.ht/~jakintosh/feescan/internal/core"
)

func staged(t *testing.T, name string) State {
	t.Helper()
	s := State{}.Select(core.NewStatement("/tmp/" + name))
	if !s.HasStatement() {
		t.Fatalf("expected %s to be staged, err=%q", name, s.Err)
	}
	return s
}

func TestSelectRejectsUnsupportedExtensions(t *testing.T) {
	for _, name := range []string{"a.txt", "b.xlsx", "c.csv.gz", "noext", "d.PDFX"} {
		s := State{}.Select(core.NewStatement("/tmp/" + name))
		if s.HasStatement() {
			t.Fatalf("%s: expected no statement to be staged", name)
		}
		if s.Err != "Please upload a CSV or PDF bank statement" {
			t.Fatalf("%s: unexpected error %q", name, s.Err)
		}
	}
}

func TestSelectRejectionKeepsPreviousStatement(t *testing.T) {
	s := staged(t, "jan.csv")
	s = s.Select(core.NewStatement("/tmp/feb.docx"))
	if s.Statement == nil || s.Statement.Name != "jan.csv" {
		t.Fatalf("expected jan.csv to remain staged, got %+v", s.Statement)
	}
	if s.Err == "" {
		t.Fatalf("expected validation error")
	}
}

func TestSelectAcceptsAnyCaseAndClearsError(t *testing.T) {
	for _, name := range []string{"a.csv", "A.CSV", "b.pdf", "B.PdF"} {
		s := State{Err: "previous problem"}.Select(core.NewStatement("/tmp/" + name))
		if !s.HasStatement() || s.Statement.Name != name {
			t.Fatalf("%s: expected to be staged, got %+v", name, s.Statement)
		}
		if s.Err != "" {
			t.Fatalf("%s: expected error to be cleared, got %q", name, s.Err)
		}
	}
}

func TestSelectEmptyCandidateOnlyClearsError(t *testing.T) {
	s := staged(t, "jan.csv")
	s.Err = "stale"
	s = s.Select(core.Statement{})
	if s.Err != "" || s.Statement == nil {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestSelectKeepsPreviousResult(t *testing.T) {
	s := staged(t, "jan.csv")
	s.Result = &core.AnalysisResult{Summary: core.Summary{TotalCount: 2}}
	s = s.Select(core.NewStatement("/tmp/feb.pdf"))
	if s.Result == nil {
		t.Fatalf("expected result to survive a new selection")
	}
}

func TestSubmitWithoutStatement(t *testing.T) {
	s, req := State{}.Submit()
	if req != nil {
		t.Fatalf("expected no request without a staged statement")
	}
	if s.Loading {
		t.Fatalf("expected loading to stay false")
	}
	if s.Err != "Choose a CSV or PDF statement first" {
		t.Fatalf("unexpected error %q", s.Err)
	}
}

func TestSubmitClearsErrorAndResult(t *testing.T) {
	s := staged(t, "jan.csv")
	s.Err = "old"
	s.Result = &core.AnalysisResult{}
	s, req := s.Submit()
	if req == nil || req.Statement.Name != "jan.csv" {
		t.Fatalf("expected a request for jan.csv, got %+v", req)
	}
	if !s.Loading || s.Err != "" || s.Result != nil {
		t.Fatalf("unexpected state after submit: %+v", s)
	}
}

func TestSubmitWhileLoadingIsNoop(t *testing.T) {
	s := staged(t, "jan.csv")
	s, first := s.Submit()
	before := s
	s, second := s.Submit()
	if second != nil {
		t.Fatalf("expected second submit to issue nothing")
	}
	if s != before {
		t.Fatalf("expected state unchanged, got %+v want %+v", s, before)
	}
	if !s.IsPending(first.ID) {
		t.Fatalf("expected first request to remain pending")
	}
}

func TestCompleteSuccess(t *testing.T) {
	s, req := staged(t, "jan.csv").Submit()
	result := &core.AnalysisResult{Summary: core.Summary{TotalCount: 4}}
	s = s.Complete(req.ID, result, nil)
	if s.Loading || s.Err != "" {
		t.Fatalf("unexpected state %+v", s)
	}
	if s.Result != result {
		t.Fatalf("expected result to be stored as received")
	}
}

func TestCompleteFailure(t *testing.T) {
	s, req := staged(t, "jan.csv").Submit()
	s = s.Complete(req.ID, nil, errors.New("bad statement"))
	if s.Loading || s.Result != nil || s.Err != "bad statement" {
		t.Fatalf("unexpected state %+v", s)
	}

	s, req = s.Submit()
	s = s.Complete(req.ID, nil, errors.New(""))
	if s.Err != "Upload failed" {
		t.Fatalf("expected fallback message, got %q", s.Err)
	}
}

func TestStaleCompletionIgnored(t *testing.T) {
	s, first := staged(t, "jan.csv").Submit()
	s = s.Cancel()
	if s.Loading || s.Err != core.CancelledMessage {
		t.Fatalf("unexpected state after cancel: %+v", s)
	}
	s, second := s.Submit()
	s = s.Complete(first.ID, &core.AnalysisResult{}, nil)
	if !s.Loading || s.Result != nil {
		t.Fatalf("stale completion changed state: %+v", s)
	}
	s = s.Complete(second.ID, &core.AnalysisResult{}, nil)
	if s.Loading || s.Result == nil {
		t.Fatalf("expected current completion to land: %+v", s)
	}
}

func TestCancelWhenIdle(t *testing.T) {
	s := staged(t, "jan.csv")
	if got := s.Cancel(); got != s {
		t.Fatalf("expected cancel on idle state to be a no-op")
	}
}
