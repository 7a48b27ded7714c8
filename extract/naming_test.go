package extract

import "testing"

func TestArtifactName(t *testing.T) {
	tests := []struct {
		base    string
		ordinal int
		want    string
	}{
		{"manic_miner", 1, "manic_miner.bin"},
		{"manic_miner", 2, "manic_miner_code2.bin"},
		{"manic_miner", 3, "manic_miner_code3.bin"},
		{"game", 12, "game_code12.bin"},
		{"game", 0, "game.bin"},
	}

	for _, tt := range tests {
		if got := ArtifactName(tt.base, tt.ordinal); got != tt.want {
			t.Errorf("ArtifactName(%q, %d) = %q, want %q", tt.base, tt.ordinal, got, tt.want)
		}
	}
}

func TestManifestName(t *testing.T) {
	if got := ManifestName("game"); got != "game.manifest.yaml" {
		t.Errorf("ManifestName = %q", got)
	}
}
