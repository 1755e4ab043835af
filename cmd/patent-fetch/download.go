// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/acquire"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/httputil"
)

var downloadCmd = &cobra.Command{
	Use:   "download <url> <destination>",
	Short: "Download one PDF URL to a file",
	Long: `Download fetches a URL with the configured User-Agent and writes it to the
destination path, creating parent directories. An existing file is replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	d := acquire.NewDownloader(httputil.NewClient(httpConfig()))
	n, err := d.Download(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded: %s (%d bytes)\n", args[1], n)
	return nil
}
