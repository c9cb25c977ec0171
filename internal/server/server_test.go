package server

import (
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBindsEphemeralPortAndServesPing(t *testing.T) {
	srv, err := New(Options{Port: 0}, nil)
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get("http://" + srv.Addr() + "/__httpmock__/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewLoadsStaticMocksDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/greet.json", `{
		"request": {"method": {"equals": "GET"}, "path": {"equals": "/hello"}},
		"response": {"status": 200, "body": "hi"}
	}`)

	srv, err := New(Options{Port: 0, StaticMocksDir: dir}, nil)
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get("http://" + srv.Addr() + "/hello")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
