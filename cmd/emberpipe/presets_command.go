package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"emberpipe/internal/export"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "presets",
		Short:       "List available export kinds",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(export.Kinds()))
			for _, k := range export.Kinds() {
				w, h := k.Resolution()
				mode := "flat"
				if k.IsStereo() {
					mode = "360 stereo"
				} else if k.Is360() {
					mode = "360 mono"
				}
				rows = append(rows, []string{
					k.String(),
					presetLabel(k),
					fmt.Sprintf("%dx%d", w, h),
					mode,
					yesNo(k.NeedsGPU()),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tag", "Label", "Resolution", "Mode", "GPU"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

// presetLabel turns an export tag into a display name.
func presetLabel(k export.Kind) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(k.String(), "-", " "))
}
