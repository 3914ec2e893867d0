package preset_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"fadebatch/internal/host/hosttest"
	"fadebatch/internal/preset"
	"fadebatch/internal/services"
)

func TestRefreshReturnsHostOrderAndCollatedDisplay(t *testing.T) {
	h := hosttest.New()
	h.AddEffect("Graphic Fade", "smooth", "Fade", "zeta", "Éclair", "apple")

	catalog := preset.NewCatalog(h)
	names, err := catalog.Refresh(context.Background(), "graphic fade")
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if want := []string{"smooth", "Fade", "zeta", "Éclair", "apple"}; !slices.Equal(names, want) {
		t.Fatalf("Refresh = %v, want host order %v", names, want)
	}
	if want := []string{"apple", "Éclair", "Fade", "smooth", "zeta"}; !slices.Equal(catalog.Sorted(), want) {
		t.Fatalf("Sorted = %v, want %v", catalog.Sorted(), want)
	}
	if catalog.Effect() == nil || catalog.Effect().Name() != "Graphic Fade" {
		t.Fatalf("unexpected effect %v", catalog.Effect())
	}
	if !catalog.Contains("Éclair") || catalog.Contains("eclair") {
		t.Fatal("Contains should match names verbatim")
	}
}

func TestRefreshMissingEffect(t *testing.T) {
	h := hosttest.New()
	h.AddEffect("Graphic Fade", "Fade in")

	catalog := preset.NewCatalog(h)
	if _, err := catalog.Refresh(context.Background(), "Graphic Fade"); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	_, err := catalog.Refresh(context.Background(), "Reverb")
	if !errors.Is(err, preset.ErrEffectNotFound) || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrEffectNotFound, got %v", err)
	}
	if !catalog.IsEmpty() || catalog.Effect() != nil {
		t.Fatal("failed refresh should clear the catalog")
	}
}

func TestRefreshHostFault(t *testing.T) {
	h := hosttest.New()
	h.FindEffectErr = errors.New("scripting surface unavailable")

	_, err := preset.NewCatalog(h).Refresh(context.Background(), "Graphic Fade")
	if !errors.Is(err, services.ErrHostFault) {
		t.Fatalf("expected host fault, got %v", err)
	}
}

func TestEmptyPresetList(t *testing.T) {
	h := hosttest.New()
	h.AddEffect("Graphic Fade")

	catalog := preset.NewCatalog(h)
	if _, err := catalog.Refresh(context.Background(), "Graphic Fade"); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !catalog.IsEmpty() {
		t.Fatal("expected empty catalog")
	}
	sel, err := catalog.Resolve(preset.Selection{FadeInSeconds: 1})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if sel.FadeInPreset != "" || sel.FadeOutPreset != "" {
		t.Fatalf("expected empty names, got %+v", sel)
	}
}

func TestResolve(t *testing.T) {
	h := hosttest.New()
	h.AddEffect("Graphic Fade", "Smooth fade out", "Fade in", "Fade out")
	catalog := preset.NewCatalog(h)
	if _, err := catalog.Refresh(context.Background(), "Graphic Fade"); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	tests := []struct {
		name    string
		in      preset.Selection
		want    preset.Selection
		wantErr bool
	}{
		{
			name: "defaults to first displayed",
			in:   preset.Selection{FadeInSeconds: 0.5, FadeOutSeconds: 0.5},
			want: preset.Selection{FadeInPreset: "Fade in", FadeOutPreset: "Fade in", FadeInSeconds: 0.5, FadeOutSeconds: 0.5},
		},
		{
			name: "keeps explicit names",
			in:   preset.Selection{FadeInPreset: "Fade in", FadeOutPreset: "Smooth fade out"},
			want: preset.Selection{FadeInPreset: "Fade in", FadeOutPreset: "Smooth fade out"},
		},
		{
			name:    "rejects unknown",
			in:      preset.Selection{FadeInPreset: "Fade in", FadeOutPreset: "Crossfade"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.Resolve(tt.in)
			if tt.wantErr {
				if !errors.Is(err, preset.ErrUnknownPreset) || !services.IsConfiguration(err) {
					t.Fatalf("expected ErrUnknownPreset, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}
