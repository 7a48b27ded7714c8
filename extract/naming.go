package extract

import "fmt"

// ArtifactName returns the output file name for the ordinal-th artifact of
// an input: "game.bin" for the first, "game_code2.bin", "game_code3.bin"
// and so on after that.
func ArtifactName(base string, ordinal int) string {
	if ordinal <= 1 {
		return base + ".bin"
	}
	return fmt.Sprintf("%s_code%d.bin", base, ordinal)
}

// ManifestName returns the manifest file name for base.
func ManifestName(base string) string {
	return base + ".manifest.yaml"
}
