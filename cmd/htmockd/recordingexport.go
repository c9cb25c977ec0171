package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vdobler/htmock/internal/pool"
	"github.com/vdobler/htmock/sanitize"
)

var (
	recordingExportServer string
	recordingExportID     int
	recordingExportName   string
)

var recordingExportCmd = &cobra.Command{
	Use:   "recording-export",
	Short: "fetch a recording from a running server and save it as a YAML file",
	RunE:  runRecordingExport,
}

func init() {
	flags := recordingExportCmd.Flags()
	flags.StringVar(&recordingExportServer, "server", "127.0.0.1:5000", "address of the running server")
	flags.IntVar(&recordingExportID, "id", 0, "id of the recording to export")
	flags.StringVar(&recordingExportName, "name", "recording", "base name for the saved file; sanitized for filesystem safety")
	rootCmd.AddCommand(recordingExportCmd)
}

func runRecordingExport(cmd *cobra.Command, args []string) error {
	adapter := pool.NewRemoteAdapter(recordingExportServer, "http", nil)
	data, found, err := adapter.FetchRecording(context.Background(), recordingExportID)
	if err != nil {
		return fmt.Errorf("fetching recording %d: %w", recordingExportID, err)
	}
	if !found {
		return fmt.Errorf("no recording with id %d", recordingExportID)
	}

	filename := fmt.Sprintf("%s-%d.yaml", sanitize.SanitizeFilename(recordingExportName), recordingExportID)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	fmt.Printf("wrote %s\n", filename)
	return nil
}
