package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fadebatch/internal/preset"
)

type presetsJSON struct {
	Effect        string   `json:"effect"`
	Presets       []string `json:"presets"`
	FadeInPreset  string   `json:"fade_in_preset,omitempty"`
	FadeOutPreset string   `json:"fade_out_preset,omitempty"`
}

func newPresetsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the presets of the configured fade effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			h, err := ctx.newHost()
			if err != nil {
				return err
			}
			catalog := preset.NewCatalog(h)
			if _, err := catalog.Refresh(cmd.Context(), cfg.Fade.EffectName); err != nil {
				return err
			}
			sel, err := catalog.Resolve(preset.Selection{
				FadeInPreset:  cfg.Fade.FadeInPreset,
				FadeOutPreset: cfg.Fade.FadeOutPreset,
			})
			if err != nil {
				return err
			}

			names := catalog.Sorted()
			if jsonOutput {
				return writeJSON(cmd, presetsJSON{
					Effect:        catalog.Effect().Name(),
					Presets:       names,
					FadeInPreset:  sel.FadeInPreset,
					FadeOutPreset: sel.FadeOutPreset,
				})
			}

			rows := make([][]string, 0, len(names))
			for i, name := range names {
				rows = append(rows, []string{strconv.Itoa(i + 1), name, selectionMarker(name, sel)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Effect: %s\n", catalog.Effect().Name())
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Preset", "Selected"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func selectionMarker(name string, sel preset.Selection) string {
	switch {
	case name == sel.FadeInPreset && name == sel.FadeOutPreset:
		return "fade in, fade out"
	case name == sel.FadeInPreset:
		return "fade in"
	case name == sel.FadeOutPreset:
		return "fade out"
	default:
		return ""
	}
}
