package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncDirective("short", ResultSuccess)
	pr.IncDirective("short", ResultSuccess)
	pr.IncDirective("domain", ResultFailed)
	pr.ObserveEncodeDuration(2 * time.Millisecond)
	pr.ObserveImageBytes(1024)
	pr.IncDocument(ResultSuccess)
	pr.ObserveConvertDuration(10 * time.Millisecond)

	require.InDelta(t, 2, testutil.ToFloat64(pr.directives.WithLabelValues("short", "success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.directives.WithLabelValues("domain", "failed")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.documents.WithLabelValues("success")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 5)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncDirective("short", ResultSuccess)
		pr.ObserveEncodeDuration(time.Millisecond)
		pr.ObserveImageBytes(1)
		pr.IncDocument(ResultFailed)
		pr.ObserveConvertDuration(time.Millisecond)
	})
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	require.NotPanics(t, func() {
		r.IncDirective("domain", ResultLiteral)
		r.IncDocument(ResultSkipped)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncDocument(ResultSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `mdqrcode_documents_total{result="success"} 1`)
}

func TestServe(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncDirective("short", ResultSuccess)

	srv, err := Serve("127.0.0.1:0", reg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + Path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `mdqrcode_directives_total{result="success",syntax="short"} 1`)
}

func TestServe_BindFailure(t *testing.T) {
	first, err := Serve("127.0.0.1:0", prom.NewRegistry(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	_, err = Serve(first.Addr(), prom.NewRegistry(), nil)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryRuntime))
}
