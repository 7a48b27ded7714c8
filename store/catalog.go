package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/justapithecus/lode/lode"

	"github.com/doraemoncito/tap2bin/types"
)

// CatalogDataset is the Lode dataset ID holding catalog records.
const CatalogDataset = "tap2bin"

// CatalogEntry is one extracted artifact as recorded in the catalog.
type CatalogEntry struct {
	RunID       string `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	Source      string `json:"source" yaml:"source" msgpack:"source"`
	Day         string `json:"day" yaml:"day" msgpack:"day"`
	Name        string `json:"name" yaml:"name" msgpack:"name"`
	Location    string `json:"location" yaml:"location" msgpack:"location"`
	LoadAddress int    `json:"load_address" yaml:"load_address" msgpack:"load_address"`
	Size        int    `json:"size" yaml:"size" msgpack:"size"`
	Digest      string `json:"digest" yaml:"digest" msgpack:"digest"`
	RecordedAt  string `json:"recorded_at" yaml:"recorded_at" msgpack:"recorded_at"`
}

// Catalog records extraction runs in a Hive-partitioned Lode dataset
// (source/day) so that past output can be listed without touching the
// artifacts themselves.
type Catalog struct {
	dataset lode.Dataset
}

// NewCatalog opens the catalog dataset over factory.
// Use lode.NewMemoryFactory() for testing.
func NewCatalog(factory lode.StoreFactory) (*Catalog, error) {
	ds, err := lode.NewDataset(
		lode.DatasetID(CatalogDataset),
		factory,
		lode.WithHiveLayout("source", "day"),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
	if err != nil {
		return nil, WrapInitError(err, CatalogDataset)
	}
	return &Catalog{dataset: ds}, nil
}

// NewCatalogFS opens a catalog stored under root on the local filesystem,
// creating root if it does not exist yet.
func NewCatalogFS(root string) (*Catalog, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, WrapInitError(err, root)
	}
	return NewCatalog(lode.NewFSFactory(root))
}

// Record writes one catalog record per artifact. A run that produced no
// artifacts writes nothing.
func (c *Catalog) Record(ctx context.Context, runID, source string, at time.Time, artifacts []types.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	at = at.UTC()
	day := at.Format(time.DateOnly)
	records := make([]any, 0, len(artifacts))
	for _, a := range artifacts {
		records = append(records, map[string]any{
			"run_id":       runID,
			"source":       source,
			"day":          day,
			"name":         a.Name,
			"location":     a.Location,
			"load_address": int(a.LoadAddress),
			"size":         a.Size,
			"digest":       a.Digest.String(),
			"recorded_at":  at.Format(time.RFC3339),
		})
	}

	if _, err := c.dataset.Write(ctx, records, lode.Metadata{}); err != nil {
		return WrapWriteError(err, CatalogDataset)
	}
	return nil
}

// List returns recorded artifacts in recording order, optionally filtered
// by source. Records repeated across snapshots are reported once.
func (c *Catalog) List(ctx context.Context, source string) ([]CatalogEntry, error) {
	snapshots, err := c.dataset.Snapshots(ctx)
	if err != nil {
		return nil, WrapReadError(err, CatalogDataset+"/snapshots")
	}

	seen := make(map[string]struct{})
	var entries []CatalogEntry
	for _, snap := range snapshots {
		data, err := c.dataset.Read(ctx, snap.ID)
		if err != nil {
			return nil, WrapReadError(err, fmt.Sprintf("%s/snapshot/%s", CatalogDataset, snap.ID))
		}

		for _, item := range data {
			record, ok := item.(map[string]any)
			if !ok {
				continue
			}
			entry := entryFromRecord(record)
			if source != "" && entry.Source != source {
				continue
			}
			key := entry.RunID + "\x00" + entry.Name
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func entryFromRecord(r map[string]any) CatalogEntry {
	return CatalogEntry{
		RunID:       toString(r["run_id"]),
		Source:      toString(r["source"]),
		Day:         toString(r["day"]),
		Name:        toString(r["name"]),
		Location:    toString(r["location"]),
		LoadAddress: toInt(r["load_address"]),
		Size:        toInt(r["size"]),
		Digest:      toString(r["digest"]),
		RecordedAt:  toString(r["recorded_at"]),
	}
}

// toString converts a value to string, returning empty string for nil/non-string.
func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// toInt converts a decoded JSON number to int.
func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

// SourceStats aggregates the catalog entries of one source.
type SourceStats struct {
	Source    string `json:"source" yaml:"source" msgpack:"source"`
	Runs      int    `json:"runs" yaml:"runs" msgpack:"runs"`
	Artifacts int    `json:"artifacts" yaml:"artifacts" msgpack:"artifacts"`
	Bytes     int64  `json:"bytes" yaml:"bytes" msgpack:"bytes"`
	LastRun   string `json:"last_run" yaml:"last_run" msgpack:"last_run"`
}

// Stats aggregates entries per source, in order of first appearance.
func Stats(entries []CatalogEntry) []SourceStats {
	index := make(map[string]int)
	runs := make(map[string]map[string]struct{})
	stats := []SourceStats{}
	for _, e := range entries {
		i, ok := index[e.Source]
		if !ok {
			i = len(stats)
			index[e.Source] = i
			runs[e.Source] = make(map[string]struct{})
			stats = append(stats, SourceStats{Source: e.Source})
		}
		s := &stats[i]
		if _, seen := runs[e.Source][e.RunID]; !seen {
			runs[e.Source][e.RunID] = struct{}{}
			s.Runs++
		}
		s.Artifacts++
		s.Bytes += int64(e.Size)
		if e.RecordedAt > s.LastRun {
			s.LastRun = e.RecordedAt
		}
	}
	return stats
}
