package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCatalog(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeCatalog(t, `
entries:
  - id: s0a
    name: "MP9 | Dart"
    tier: 0
    min_float: 0.06
    max_float: 0.80
    collections: ["The Safehouse Collection"]
    stattrak: true
  - id: s1a
    name: "CZ75-Auto | Pole Position"
    tier: 1
    min_float: 0.0
    max_float: 1.0
    collections: ["The Safehouse Collection"]
`)
	idx, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(idx.All()) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(idx.All()))
	}
	e, err := idx.ByID("s0a")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if e.MinFloat != 0.06 || e.MaxFloat != 0.80 || !e.StatTrak {
		t.Fatalf("entry fields not carried through: %+v", e)
	}
	if got := idx.ByTierAndCollection("safehouse", 1); len(got) != 1 {
		t.Fatalf("collection index not built: %+v", got)
	}
}

func TestLoadFileRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"missing id",
			`entries: [{name: "X | Y", tier: 0, min_float: 0, max_float: 1, collections: ["C"]}]`,
			"missing id",
		},
		{
			"float range outside unit interval",
			`entries: [{id: a, name: "X | Y", tier: 0, min_float: -0.1, max_float: 1, collections: ["C"]}]`,
			"outside [0,1]",
		},
		{
			"inverted float range",
			`entries: [{id: a, name: "X | Y", tier: 0, min_float: 0.8, max_float: 0.2, collections: ["C"]}]`,
			"exceeds max_float",
		},
		{
			"no collections",
			`entries: [{id: a, name: "X | Y", tier: 0, min_float: 0, max_float: 1}]`,
			"no collection",
		},
		{
			"negative tier",
			`entries: [{id: a, name: "X | Y", tier: -1, min_float: 0, max_float: 1, collections: ["C"]}]`,
			"tier must be >= 0",
		},
		{
			"duplicate id",
			`entries:
  - {id: a, name: "X | Y", tier: 0, min_float: 0, max_float: 1, collections: ["C"]}
  - {id: a, name: "X | Z", tier: 0, min_float: 0, max_float: 1, collections: ["C"]}`,
			"duplicate id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeCatalog(t, tt.yaml))
			if err == nil {
				t.Fatal("LoadFile accepted an invalid catalog")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadFile accepted a missing file")
	}
}
