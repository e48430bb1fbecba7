// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package supervisor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/feedrank/internal/logging"
)

// testService runs until canceled, failing the first failures starts.
type testService struct {
	name       string
	failures   int32
	startCount atomic.Int32
}

var _ suture.Service = (*testService)(nil)

func (s *testService) Serve(ctx context.Context) error {
	if n := s.startCount.Add(1); n <= s.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *testService) String() string { return s.name }

func (s *testService) waitStarts(t *testing.T, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.startCount.Load() < n {
		if time.Now().After(deadline) {
			t.Fatalf("%s started %d times, want >= %d", s.name, s.startCount.Load(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// syncBuffer is written by several supervisor goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestTree(t *testing.T, cfg TreeConfig) (*SupervisorTree, *syncBuffer) {
	t.Helper()

	buf := &syncBuffer{}
	logger := slog.New(logging.NewSlogHandler(logging.NewTestLogger(buf)))
	tree, err := NewSupervisorTree(logger, cfg)
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	return tree, buf
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, _ := newTestTree(t, TreeConfig{})

	if tree.Root() == nil {
		t.Fatal("root supervisor should not be nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("zero config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}

	tree, _ = newTestTree(t, TreeConfig{FailureBackoff: time.Second})
	if tree.config.FailureBackoff != time.Second || tree.config.FailureThreshold != 5 {
		t.Errorf("explicit values not preserved: %+v", tree.config)
	}
}

func TestSupervisorTree_Lifecycle(t *testing.T) {
	tree, _ := newTestTree(t, TreeConfig{ShutdownTimeout: time.Second})

	data := &testService{name: "checkpoint"}
	api := &testService{name: "http"}
	tree.AddDataService(data)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	data.waitStarts(t, 1)
	api.waitStarts(t, 1)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil || len(report) != 0 {
		t.Errorf("unstopped services = %v, err = %v", report, err)
	}
}

func TestSupervisorTree_RestartsFailingDataService(t *testing.T) {
	tree, buf := newTestTree(t, TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	flaky := &testService{name: "flaky-checkpoint", failures: 2}
	api := &testService{name: "http"}
	tree.AddDataService(flaky)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	flaky.waitStarts(t, 3)
	api.waitStarts(t, 1)
	cancel()
	<-errCh

	if got := api.startCount.Load(); got != 1 {
		t.Errorf("api service restarted %d times by a data-layer failure", got-1)
	}
	if !strings.Contains(buf.String(), "flaky-checkpoint") {
		t.Errorf("supervisor events not logged: %s", buf.String())
	}
}

func TestSupervisorTree_RemoveDataService(t *testing.T) {
	tree, _ := newTestTree(t, TreeConfig{ShutdownTimeout: time.Second})

	svc := &testService{name: "checkpoint"}
	token := tree.AddDataService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)
	svc.waitStarts(t, 1)

	if err := tree.RemoveDataService(token); err != nil {
		t.Errorf("RemoveDataService() error = %v", err)
	}
	cancel()
	<-errCh
}
