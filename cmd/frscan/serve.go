package main

import (
	"github.com/spf13/cobra"

	"frscan/internal/config"
	"frscan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload API (POST /scan-upload/)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	d := config.Default
	serveCmd.Flags().String("port", d.Server.Port, "Listen address, e.g. ':8000' or '8000'.")
	serveCmd.Flags().String("upload-dir", d.Server.UploadDir, "Directory for uploads and extracted archives.")
	serveCmd.Flags().Int64("max-upload-bytes", d.Server.MaxUploadBytes, "Reject uploads larger than this.")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, true, true)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.pipeline, server.Options{
		UploadDir:      a.cfg.Server.UploadDir,
		MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
		Model:          a.cfg.LLM.Model,
		Log:            a.log.Named("server"),
	})
	return srv.ListenAndServe(cmd.Context(), a.cfg.Server.Port)
}
