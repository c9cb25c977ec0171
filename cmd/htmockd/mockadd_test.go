package main

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vdobler/htmock/internal/server"
)

func TestRunMockAddRegistersMockOnRunningServer(t *testing.T) {
	srv, err := server.New(server.Options{}, nil)
	require.NoError(t, err)
	defer srv.Close()

	defFile := filepath.Join(t.TempDir(), "mock.json")
	const def = `{
		"request": {"method": {"equals": "GET"}, "path": {"equals": "/greeting"}},
		"response": {"status": 200, "body": "hello"}
	}`
	require.NoError(t, os.WriteFile(defFile, []byte(def), 0o644))

	mockAddServer = srv.Addr()
	require.NoError(t, runMockAdd(mockAddCmd, []string{defFile}))

	resp, err := http.Get("http://" + srv.Addr() + "/greeting")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
