package main

import (
	"fmt"
	"sort"

	"github.com/deppfellow/operator-journal/internal/lib/email"
	"github.com/spf13/cobra"
)

var previewEmailCmd = &cobra.Command{
	Use:   "preview-email <template>",
	Short: "Render an email template with sample data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := email.Template(args[0])

		data, ok := email.PreviewData[name]
		if !ok {
			return fmt.Errorf("no preview data for template %q (known: %v)", name, previewTemplates())
		}

		html, err := email.Render(name, data)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	},
}

func previewTemplates() []string {
	names := make([]string, 0, len(email.PreviewData))
	for name := range email.PreviewData {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
