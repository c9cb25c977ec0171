package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vdobler/htmock/internal/client"
	"github.com/vdobler/htmock/internal/pool"
	"github.com/vdobler/htmock/internal/wire"
)

var mockAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "add a mock definition (JSON or YAML) to a running server",
	Args:  cobra.ExactArgs(1),
	RunE:  runMockAdd,
}

var mockAddServer string

func init() {
	mockAddCmd.Flags().StringVar(&mockAddServer, "server", "127.0.0.1:5000", "address of the running server")
}

func runMockAdd(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var def wire.MockDefinition
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &def)
	} else {
		err = yaml.Unmarshal(data, &def)
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	adapter := pool.NewRemoteAdapter(mockAddServer, "http", nil)
	c := client.New(adapter)
	mock, err := c.Adapter.AddMock(context.Background(), def)
	if err != nil {
		return fmt.Errorf("adding mock: %w", err)
	}
	fmt.Printf("added mock %d\n", mock.ID)
	return nil
}
