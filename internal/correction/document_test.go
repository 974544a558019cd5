package correction_test

import (
	"encoding/json"
	"testing"

	"github.com/MrWong99/dikte/internal/correction"
)

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	src := correction.NewStore()
	src.Add("guzel", "güzel")
	src.Add("guzel", "güzel")
	src.AddStem("biçim", "bitim")
	src.Promote("guzel")

	data, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := correction.NewStore()
	dst.Add("unrelated", "başka")
	n, err := dst.Import(data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Errorf("Import returned %d, want 2", n)
	}
	if _, ok := dst.Get("unrelated"); ok {
		t.Error("Import merged instead of replacing")
	}

	want := src.All()
	got := dst.All()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestImport_MalformedLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	s := correction.NewStore()
	s.Add("guzel", "güzel")

	if _, err := s.Import([]byte(`{"corrections": [`)); err == nil {
		t.Fatal("Import: expected error for malformed JSON")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d after failed import, want 1", s.Len())
	}
}

func TestExport_StatusAndSourceNames(t *testing.T) {
	t.Parallel()

	s := correction.NewStore()
	s.AddStem("biçim", "bitim")

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var raw struct {
		Version     int              `json:"version"`
		Corrections []map[string]any `json:"corrections"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if raw.Version != correction.SchemaVersion {
		t.Errorf("version = %d, want %d", raw.Version, correction.SchemaVersion)
	}
	if len(raw.Corrections) != 1 {
		t.Fatalf("got %d corrections, want 1", len(raw.Corrections))
	}
	c := raw.Corrections[0]
	if c["status"] != "Pending" || c["source"] != "stem_inferred" {
		t.Errorf("status/source = %v/%v, want Pending/stem_inferred", c["status"], c["source"])
	}
}

func TestMigrate_Version1(t *testing.T) {
	t.Parallel()

	v1 := []byte(`{
		"corrections": [
			{"wrong": "cok", "right": "çok", "count": 4, "last_seen": 1000, "status": "Pending"},
			{"wrong": "iyi", "right": "ıyı", "count": 1, "last_seen": 2000, "status": "Pending"},
			{"wrong": "sifir", "right": "sıfır", "count": 0, "last_seen": 0, "status": "Pending"},
			{"wrong": "eski", "right": "eskı", "count": 5, "last_seen": 3000, "status": "Deprecated"}
		]
	}`)

	doc, err := correction.Decode(v1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !correction.Migrate(&doc) {
		t.Fatal("Migrate: reported no change for a v1 document")
	}
	if doc.Version != correction.SchemaVersion {
		t.Errorf("Version = %d, want %d", doc.Version, correction.SchemaVersion)
	}

	tests := []struct {
		wrong     string
		status    correction.Status
		firstSeen int64
	}{
		{"cok", correction.StatusActive, 1000},
		{"iyi", correction.StatusConfirmed, 2000},
		{"sifir", correction.StatusPending, 0},
		{"eski", correction.StatusDeprecated, 3000},
	}
	for i, tt := range tests {
		r := doc.Corrections[i]
		if r.Wrong != tt.wrong {
			t.Fatalf("record %d = %q, want %q", i, r.Wrong, tt.wrong)
		}
		if r.Status != tt.status {
			t.Errorf("%s: status = %v, want %v", tt.wrong, r.Status, tt.status)
		}
		if r.FirstSeen != tt.firstSeen {
			t.Errorf("%s: first_seen = %d, want %d", tt.wrong, r.FirstSeen, tt.firstSeen)
		}
		if r.Source != correction.SourceDiff {
			t.Errorf("%s: source = %v, want diff", tt.wrong, r.Source)
		}
	}

	if correction.Migrate(&doc) {
		t.Error("Migrate: second run reported a change")
	}
}

func TestRestore_Sanitizes(t *testing.T) {
	t.Parallel()

	s := correction.NewStore()
	s.Restore(correction.Document{
		Version: correction.SchemaVersion,
		Corrections: []correction.Record{
			{Wrong: "Guzel", Right: "güzel", Count: 2},
			{Wrong: "guzel", Right: "güzell", Count: 9},
			{Wrong: "ayni", Right: "AYNI"},
			{Wrong: "  ", Right: "bos"},
			{Wrong: "cok", Right: ""},
		},
	})

	all := s.All()
	if len(all) != 1 {
		t.Fatalf("got %d records, want 1: %+v", len(all), all)
	}
	if all[0].Wrong != "guzel" || all[0].Count != 2 {
		t.Errorf("kept %+v, want first guzel record with lowercase key", all[0])
	}
}
