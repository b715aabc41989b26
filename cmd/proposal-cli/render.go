package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func renderCmd() *cobra.Command {
	var (
		index int
		out   string
	)

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render the proposal PDF for an order to a local file",
		Long: `Render builds the same document as POST /api/pdf/download.
Nothing is uploaded and the relay is not notified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := a.Service.Render(cmd.Context(), args[0], index)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = doc.Filename
			}
			if err := os.WriteFile(path, doc.PDF, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Printf("Wrote %s (%d bytes)\n", path, len(doc.PDF))
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "image", "i", 0, "Selected image slot (0-3)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to the generated filename)")
	return cmd
}
