package extract

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/doraemoncito/tap2bin/types"
)

// Manifest lists the artifacts of one decode for the benchmark tool,
// which needs each payload's load address alongside the file name.
type Manifest struct {
	Source    string          `yaml:"source"`
	RunID     string          `yaml:"run_id,omitempty"`
	Artifacts []ManifestEntry `yaml:"artifacts"`
}

// ManifestEntry is one artifact in a Manifest.
type ManifestEntry struct {
	File string `yaml:"file"`
	// LoadAddress is rendered as 0xNNNN.
	LoadAddress string `yaml:"load_address"`
	Size        int    `yaml:"size"`
	Digest      string `yaml:"digest"`
	HeaderName  string `yaml:"header_name,omitempty"`
}

// NewManifest builds the manifest for a decode summary.
func NewManifest(s *types.Summary) *Manifest {
	m := &Manifest{
		Source:    s.Source,
		RunID:     s.RunID,
		Artifacts: make([]ManifestEntry, 0, len(s.Artifacts)),
	}
	for _, a := range s.Artifacts {
		m.Artifacts = append(m.Artifacts, ManifestEntry{
			File:        a.Name,
			LoadAddress: fmt.Sprintf("0x%04X", a.LoadAddress),
			Size:        a.Size,
			Digest:      a.Digest.String(),
			HeaderName:  a.HeaderName,
		})
	}
	return m
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// ParseManifest decodes a manifest written by Marshal.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	for _, e := range m.Artifacts {
		if _, err := ParseAddress(e.LoadAddress); err != nil {
			return nil, fmt.Errorf("manifest entry %s: %w", e.File, err)
		}
	}
	return &m, nil
}

// ParseAddress parses a load address written as 0xNNNN or decimal.
func ParseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid load address %q", s)
	}
	return uint16(v), nil
}
