package analyzer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~jakintosh/feescan/internal/core"
)

const report = `{"summary":{"total_fee":1234.5,"currency":"₹","total_count":2,"start_date":"2024-01-01","end_date":"2024-03-31"},
"by_category":[{"category":"ATM Charges","amount":1234.5,"count":2}],
"matches":[{"date":"2024-01-05","description":"ATM WDL CHG","amount":617.25,"category":"ATM Charges"}]}`

func writeStatement(t *testing.T, name, contents string) core.Statement {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return core.NewStatement(path)
}

func TestAnalyzeUploadsMultipartFile(t *testing.T) {
	var gotUA, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/fees/analyze", r.URL.Path)
		gotUA = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "statement.csv", header.Filename)
		assert.Equal(t, "text/csv", header.Header.Get("Content-Type"))
		assert.Equal(t, "date,desc,amount\n", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, report)
	}))
	defer srv.Close()

	client := New(srv.URL+"/", WithUserAgent("feescan/test"))
	result, err := client.Analyze(context.Background(), writeStatement(t, "statement.csv", "date,desc,amount\n"))
	require.NoError(t, err)

	assert.Equal(t, "feescan/test", gotUA)
	assert.NotEmpty(t, gotRequestID)
	assert.True(t, result.Summary.TotalFee.Equal(core.AmountFromFloat(1234.5)))
	assert.Equal(t, 2, result.Summary.TotalCount.Int())
	require.Len(t, result.ByCategory, 1)
	assert.Equal(t, "ATM Charges", result.ByCategory[0].Category)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "ATM WDL CHG", result.Matches[0].Description)
}

func TestAnalyzeSurfacesErrorBodyVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, "Could not find any transactions in this file")
	}))
	defer srv.Close()

	_, err := New(srv.URL).Analyze(context.Background(), writeStatement(t, "s.pdf", "%PDF-1.4"))
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, "Could not find any transactions in this file", err.Error())
	assert.Equal(t, "Could not find any transactions in this file", core.ErrorMessage(err))
}

func TestAnalyzeEmptyErrorBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Analyze(context.Background(), writeStatement(t, "s.csv", "x"))
	require.Error(t, err)
	assert.Equal(t, "Upload failed", core.ErrorMessage(err))
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	}))
	defer srv.Close()

	_, err := New(srv.URL).Analyze(context.Background(), writeStatement(t, "s.csv", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode analysis response")
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := New("http://127.0.0.1:1").Analyze(context.Background(), core.NewStatement(filepath.Join(t.TempDir(), "gone.csv")))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyzeRejectsOverlappingCalls(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = io.WriteString(w, report)
	}))
	defer srv.Close()

	client := New(srv.URL)
	stmt := writeStatement(t, "s.csv", "x")

	done := make(chan error, 1)
	go func() {
		_, err := client.Analyze(context.Background(), stmt)
		done <- err
	}()
	require.Eventually(t, func() bool { return hits.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err := client.Analyze(context.Background(), stmt)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), hits.Load())
}

func TestAnalyzeHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the server notices a client disconnect only once the body is consumed
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := New(srv.URL).Analyze(ctx, writeStatement(t, "s.csv", "x"))
	require.Error(t, err)
	assert.Equal(t, core.CancelledMessage, core.ErrorMessage(err))
}

func TestAnalyzeNullBodyYieldsNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "null")
	}))
	defer srv.Close()

	result, err := New(srv.URL).Analyze(context.Background(), writeStatement(t, "s.csv", "x"))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestAnalyzeAcceptsFractionalCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"summary":{"total_fee":10,"total_count":2.0},"by_category":[{"category":"SMS","amount":10,"count":"2"}],"matches":[]}`)
	}))
	defer srv.Close()

	result, err := New(srv.URL).Analyze(context.Background(), writeStatement(t, "s.csv", "x"))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Summary.TotalCount.Int())
	assert.Equal(t, 2, result.ByCategory[0].Count.Int())
}

func TestSniffContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", sniffContentType("x.PDF", []byte("%PDF-1.7")))
	assert.Equal(t, "text/csv", sniffContentType("x.CSV", []byte("a,b")))
	assert.Equal(t, "application/octet-stream", sniffContentType("x.pdf", nil))
}
