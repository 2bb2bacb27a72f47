package modcache

import (
	"testing"
	"time"
)

func TestResolveKeyMarketplace(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		display string
		want    string
	}{
		{
			name: "parent directory becomes key",
			path: `C:\data\marketplace\ab12-cd34\mod.fantome`,
			want: "marketplace_ab12-cd34",
		},
		{
			name: "forward slashes",
			path: "/home/u/marketplace/uuid-99/mod.fantome",
			want: "marketplace_uuid-99",
		},
		{
			name:    "parent literally marketplace falls back to display name",
			path:    "/home/u/marketplace/mod.fantome",
			display: "Star Guardian Pack!",
			want:    "marketplace_StarGuardianPack",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveKey(tc.path, tc.display); got != tc.want {
				t.Fatalf("ResolveKey(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestResolveKeyCanonicalID(t *testing.T) {
	got := ResolveKey("/downloads/103_103085.zip", "K/DA Ahri")
	if got != "103_103085" {
		t.Fatalf("expected canonical id preserved, got %q", got)
	}

	got = ResolveKey("/downloads/103_103085_chroma_103090.fantome", "")
	if got != "103_103085_chroma_103090" {
		t.Fatalf("expected chroma id preserved, got %q", got)
	}
}

func TestResolveKeyStackedExtensions(t *testing.T) {
	got := ResolveKey("/mods/Aatrox Classic.wad.client", "")
	if got != "Aatrox_Classic" {
		t.Fatalf("expected stacked extensions stripped, got %q", got)
	}
}

func TestResolveKeyCustomName(t *testing.T) {
	got := ResolveKey("/mods/My Cool Mod (v2).fantome", "")
	if got != "My_Cool_Mod_v2" {
		t.Fatalf("expected sanitized custom name, got %q", got)
	}
}

func TestResolveKeyCustomNamedMarketplaceIsNotMarketplace(t *testing.T) {
	// Path mentions marketplace but the file is not the canonical
	// distribution name, so the custom branch applies.
	got := ResolveKey("/mods/marketplace/custom skin.fantome", "custom skin")
	if got != "custom_skin" {
		t.Fatalf("expected custom key, got %q", got)
	}
}

func TestResolveKeyEmptyFallsBackToTimestamp(t *testing.T) {
	restore := nowFunc
	nowFunc = func() time.Time { return time.Unix(1700000000, 0) }
	defer func() { nowFunc = restore }()

	got := ResolveKey("/mods/....fantome", "")
	if got != "mod_1700000000" {
		t.Fatalf("expected timestamp fallback, got %q", got)
	}
}
