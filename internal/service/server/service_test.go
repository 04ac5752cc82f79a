package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	control "github.com/oshokin/p1-alert/internal/api/grpc/alert"
	"github.com/oshokin/p1-alert/internal/config"
	domain "github.com/oshokin/p1-alert/internal/domain/alert"
)

// fakeQueue records pushed events.
type fakeQueue struct {
	events []domain.Event
}

func (f *fakeQueue) Push(event domain.Event) { f.events = append(f.events, event) }

// fakeStatus returns a fixed status.
type fakeStatus struct {
	status domain.Status
}

func (f *fakeStatus) Snapshot() domain.Status { return f.status }

// TestControlService_Submit queues events and reports the current status.
func TestControlService_Submit(t *testing.T) {
	t.Parallel()

	q := new(fakeQueue)
	st := &fakeStatus{status: domain.Status{Lifecycle: domain.Active, Queued: 3}}
	svc := &controlService{queue: q, status: st}

	got, err := svc.Submit(context.Background(), &domain.Actor{Hostname: "noc-pi", Username: "oncall"}, domain.Resolve)
	require.NoError(t, err)
	require.Equal(t, st.status, got)
	require.Equal(t, []domain.Event{domain.Resolve}, q.events)
	require.Equal(t, st.status, svc.Status(context.Background()))
}

// TestLoadSettings_Overrides applies command line values over the file.
func TestLoadSettings_Overrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(path, config.Default()))

	settings, err := loadSettings(context.Background(), &Options{
		ConfigPath:    path,
		ListenAddress: "127.0.0.1:7002",
		GRPCAddress:   "127.0.0.1:7003",
	})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7002", settings.ListenAddress)
	require.Equal(t, "127.0.0.1:7003", settings.GRPCAddress)

	_, err = loadSettings(context.Background(), &Options{ConfigPath: path, LogLevel: "chatty"})
	require.Error(t, err)
}

// TestLoadSettings_MissingFileUsesDefaults starts with defaults when no file exists.
func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	settings, err := loadSettings(context.Background(), &Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	require.NoError(t, err)
	require.Equal(t, config.Default(), settings)
}

func readAttr(t *testing.T, dir, attribute string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, attribute))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

// TestServe_Lifecycle drives a full Raise/Resolve cycle through both surfaces.
func TestServe_Lifecycle(t *testing.T) {
	t.Parallel()

	ledA := t.TempDir()
	ledB := t.TempDir()

	settings := config.Default()
	settings.SoundPlayer = ""
	settings.AlertLog = filepath.Join(t.TempDir(), "alert-debug.log")
	settings.Indicators.A.Dir = ledA
	settings.Indicators.B.Dir = ledB
	settings.PollInterval = 10 * time.Millisecond
	settings.HideDelay = 50 * time.Millisecond
	settings.RateLimit = 0
	settings.Timeout = time.Second

	httpListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- serve(ctx, settings, clock.New(), httpListener, grpcListener)
	}()

	client, err := control.Dial(ctx, grpcListener.Addr().String(), control.WithCallTimeout(time.Second))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	lifecycle := func() domain.LifecycleState {
		st, err := client.GetState(ctx)
		if err != nil {
			return domain.LifecycleState(255)
		}

		return st.Lifecycle
	}

	// Startup restores the default triggers.
	require.Eventually(t, func() bool {
		return readAttr(t, ledA, "trigger") == "mmc0" && readAttr(t, ledB, "trigger") == "input"
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Post("http://"+httpListener.Addr().String()+"/alert", //nolint:noctx // Test request.
		"application/json", strings.NewReader(`{"alerts":[{"labels":{"alertname":"Disk full"}}]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, _ = io.Copy(io.Discard, resp.Body)
	require.NoError(t, resp.Body.Close())

	require.Eventually(t, func() bool { return lifecycle() == domain.Active }, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return readAttr(t, ledA, "trigger") == "none" }, 5*time.Second, 10*time.Millisecond)

	_, err = client.Resolve(ctx, &domain.Actor{Hostname: "noc-pi", Username: "oncall"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return lifecycle() == domain.Resolved }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, "1", readAttr(t, ledA, "brightness"))
	require.Equal(t, "0", readAttr(t, ledB, "brightness"))

	// The deferred hide fires after HideDelay.
	require.Eventually(t, func() bool {
		st, err := client.GetState(ctx)

		return err == nil && !st.HidePending
	}, 5*time.Second, 10*time.Millisecond)

	record, err := os.ReadFile(settings.AlertLog)
	require.NoError(t, err)
	require.Contains(t, string(record), "Alert Name: Disk full")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}

	require.Equal(t, "mmc0", readAttr(t, ledA, "trigger"))
	require.Equal(t, "input", readAttr(t, ledB, "trigger"))
}
