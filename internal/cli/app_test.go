package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/bloom/internal/config"
	"github.com/aretw0/bloom/internal/demo"
	"github.com/aretw0/bloom/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Memory(t *testing.T) {
	app, err := NewApp(config.Default(), io.Discard)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, []string{demo.RouteCompleted, demo.RouteEditProfile, demo.RouteTodos}, app.Routes.Routes())
	assert.Nil(t, app.Locker)
	assert.NoError(t, app.Ping(context.Background()))
}

func TestNewApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Store.Driver = config.DriverRedis
	cfg.Store.Redis.Addr = mr.Addr()

	app, err := NewApp(cfg, io.Discard)
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &redis.Store{}, app.Store)
	assert.NotNil(t, app.Locker)
	require.NoError(t, app.Ping(context.Background()))

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()
	resp, err := http.Post(srv.URL+"/sessions/r1/goto", "application/json", strings.NewReader(`{"route":"/todos"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, mr.Exists("bloom:session:r1"))
	assert.False(t, mr.Exists("bloom:lock:r1"), "lock released after the request")
}

func TestNewApp_EncryptedFileStore(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Driver = config.DriverFile
	cfg.Store.File.Dir = dir
	cfg.Store.Encryption.Key = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	app, err := NewApp(cfg, io.Discard)
	require.NoError(t, err)
	defer app.Close()

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()
	resp, err := http.Post(srv.URL+"/sessions/f1/goto", "application/json", strings.NewReader(`{"route":"/todos"}`))
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = http.Post(srv.URL+"/sessions/f1/events", "application/json",
		strings.NewReader(`{"target":"new","event":"submit","value":"water the plants"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := os.ReadFile(filepath.Join(dir, "f1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "__sealed__")
	assert.NotContains(t, string(raw), "water the plants")

	snap, err := app.Store.Load(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, demo.RouteTodos, snap.Route)
	assert.NotEmpty(t, snap.Values["items"])
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, err := NewApp(cfg, io.Discard)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Store.Driver = "etcd"
	_, err = NewApp(cfg, io.Discard)
	assert.Error(t, err)
}

func TestApp_HandlerExposesMetrics(t *testing.T) {
	app, err := NewApp(config.Default(), io.Discard)
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/sessions/m1/goto", "application/json", strings.NewReader(`{"route":"/edit-profile"}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bloom_operations_total{op="goto",route="/edit-profile"} 1`)

	cfg := config.Default()
	cfg.Server.Metrics = false
	noMetrics, err := NewApp(cfg, io.Discard)
	require.NoError(t, err)
	srv2 := httptest.NewServer(noMetrics.Handler())
	defer srv2.Close()
	resp2, err := http.Get(srv2.URL + "/metrics")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestServe_GracefulShutdown(t *testing.T) {
	app, err := NewApp(config.Default(), io.Discard)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, app, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_ShutdownEndsOpenStreams(t *testing.T) {
	app, err := NewApp(config.Default(), io.Discard)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, app, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/sessions/s1/stream")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	for lines.Scan() {
		if lines.Text() == "data: connected" {
			break
		}
	}

	start := time.Now()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), ShutdownTimeout/2)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunConsole_ProfileWizard(t *testing.T) {
	app, err := NewApp(config.Default(), io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunConsole(context.Background(), app, ConsoleOptions{
		Input:  strings.NewReader("next Ada\nsave age=36\n:quit\n"),
		Output: &out,
		Banner: true,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "| |__ | |")
	assert.Contains(t, out.String(), "Enter your name")
	assert.Contains(t, out.String(), "Your age?")
	assert.Contains(t, out.String(), "Saved Ada:36")

	last, ok := app.Profiles.Last()
	require.True(t, ok)
	assert.Equal(t, "Ada", last.Name)
}
