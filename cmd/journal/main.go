// Command journal runs the Operator's Handbook backend and its operator
// tooling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "journal",
	Short: "Backend for The Operator's Handbook site",
	Long: `journal serves the site's newsletter proxies:

  beehiiv-feed   Beehiiv RSS as {items:[title,link,date,category]}
  kit-feed       the Kit public profile as {items:[title,link,date,slug]}
  kit-subscribe  forwards an email address to a Kit form

Configuration is read from SITE_* environment variables (and .env).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, fetchCmd, previewEmailCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
