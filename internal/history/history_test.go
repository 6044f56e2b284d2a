package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
)

var when = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func TestFromResult(t *testing.T) {
	tests := []struct {
		name   string
		result *draw.Result
		want   string
	}{
		{
			name:   "plain",
			result: &draw.Result{Kind: draw.KindPlain, Timestamp: when, Column: "A", Items: []string{"x", "y"}},
			want:   "09/03/2024 14:05 - 2 itens sorteados (Coluna: A)",
		},
		{
			name:   "ranked with prizes",
			result: &draw.Result{Kind: draw.KindRanked, Timestamp: when, Column: "B", Items: []string{"x"}, Prizes: []string{"Gold"}},
			want:   "09/03/2024 14:05 - 1 itens sorteados com colocação (Coluna: B) [COM PRÊMIOS]",
		},
		{
			name:   "ranked without prizes",
			result: &draw.Result{Kind: draw.KindRanked, Timestamp: when, Column: "B", Items: []string{"x", "y", "z"}},
			want:   "09/03/2024 14:05 - 3 itens sorteados com colocação (Coluna: B)",
		},
		{
			name:   "grouped",
			result: &draw.Result{Kind: draw.KindGrouped, Timestamp: when, Column: "A", Groups: [][]string{{"a", "b"}, {"c"}}},
			want:   "09/03/2024 14:05 - 2 grupos (Coluna: A, Itens por grupo: [2, 1])",
		},
		{
			name:   "categorized",
			result: &draw.Result{Kind: draw.KindCategorized, Timestamp: when, Column: "A", Category: "VIP", Items: []string{"x"}},
			want:   "09/03/2024 14:05 - 1 itens da classificação 'VIP'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromResult(tt.result)
			if e.ID == "" {
				t.Error("ID should be set")
			}
			if got := e.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummary_LegacyAndUnknownKinds(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"empty entry", Entry{}, "Data desconhecida - ? itens sorteados (Coluna: ?)"},
		{"unknown kind", Entry{Kind: "Roleta", Timestamp: "01/01/2024 10:00", Column: "C"}, "01/01/2024 10:00 - ? itens sorteados (Coluna: C)"},
		{"grouped missing fields", Entry{Kind: KindGrouped}, "Data desconhecida - ? grupos (Coluna: ?, Itens por grupo: [])"},
		{"categorized missing category", Entry{Kind: KindCategorized}, "Data desconhecida - ? itens da classificação 'Desconhecida'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
	if l.Path() != path {
		t.Errorf("Path() = %q, want %q", l.Path(), path)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{oops"},
		{"object not array", `{"tipo": "Sorteio"}`},
		{"array of numbers", `[1, 2, 3]`},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "h.json")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			l, err := Load(path)
			if !errors.Is(err, errors.ErrCorruptState) {
				t.Errorf("Load() err = %v, want CORRUPT_STATE", err)
			}
			if l == nil || l.Len() != 0 {
				t.Errorf("Load() should return an empty log on corruption")
			}
		})
	}
}

func TestLoad_LegacyFile(t *testing.T) {
	legacy := `[
    {
        "data": "01/02/2024 09:00",
        "tipo": "Grupos",
        "num_grupos": 2,
        "coluna": "A",
        "itens_por_grupo": [3, 2]
    },
    {
        "data": "01/02/2024 09:05",
        "tipo": "Sorteio com Colocação",
        "quantidade": 3,
        "coluna": "A",
        "premiados": false,
        "itens": ["a", "b", "c"]
    }
]`
	path := filepath.Join(t.TempDir(), "h.json")
	if err := os.WriteFile(path, []byte(legacy), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	lines := l.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(Lines()) = %d, want 2", len(lines))
	}
	if lines[0].Label != 1 || !strings.Contains(lines[0].Text, "com colocação") {
		t.Errorf("Lines()[0] = %+v, want most recent (ranked) first", lines[0])
	}
	if strings.Contains(lines[0].Text, "COM PRÊMIOS") {
		t.Errorf("premiados=false should not render [COM PRÊMIOS]")
	}
	if lines[1].Label != 2 || !strings.Contains(lines[1].Text, "Itens por grupo: [3, 2]") {
		t.Errorf("Lines()[1] = %+v", lines[1])
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "h.json")
	l := New(path)
	l.Append(FromResult(&draw.Result{Kind: draw.KindPlain, Timestamp: when, Column: "A", Items: []string{"José", "Conceição"}}))
	l.Append(FromResult(&draw.Result{Kind: draw.KindGrouped, Timestamp: when, Column: "A", Groups: [][]string{{"a"}, {"b"}}}))

	if err := l.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "Conceição") {
		t.Error("non-ASCII names should be written unescaped")
	}
	if !strings.Contains(string(data), "\n    {") {
		t.Error("file should be indented with four spaces")
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved file is not a JSON array: %v", err)
	}
	if raw[0]["tipo"] != "Sorteio" || raw[1]["tipo"] != "Grupos" {
		t.Errorf("saved kinds = %v, %v", raw[0]["tipo"], raw[1]["tipo"])
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reloaded.Len())
	}
	if reloaded.Entries()[0].Items[1] != "Conceição" {
		t.Errorf("round-tripped item = %q", reloaded.Entries()[0].Items[1])
	}
}

func TestSave_OverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	if err := os.WriteFile(path, []byte(`[{"tipo":"Sorteio"},{"tipo":"Sorteio"},{"tipo":"Sorteio"}]`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	l := New(path)
	l.Append(Entry{Kind: KindPlain})
	if err := l.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (no merge with previous file)", reloaded.Len())
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	l := New(path)
	l.Append(Entry{Kind: KindPlain})
	if err := l.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("history file should be removed, stat err = %v", err)
	}
	if !l.Removed() {
		t.Error("Removed() = false after Clear, want true")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Clear error = %v, want nil", err)
	}
	if reloaded.Len() != 0 {
		t.Errorf("reloaded Len() = %d, want 0", reloaded.Len())
	}

	// Clearing again with no file is not an error.
	if err := l.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestRender(t *testing.T) {
	l := New("")
	if got := l.Render(); !strings.HasSuffix(got, EmptyText) {
		t.Errorf("Render() = %q, want empty text", got)
	}

	l.Append(Entry{Kind: KindPlain, Timestamp: "01/01/2024 10:00", Quantity: intPtr(1), Column: "A"})
	l.Append(Entry{Kind: KindCategorized, Timestamp: "01/01/2024 10:01", Quantity: intPtr(2), Category: "VIP"})

	got := l.Render()
	want := "Histórico de Sorteios:\n\n" +
		"1. 01/01/2024 10:01 - 2 itens da classificação 'VIP'\n" +
		"2. 01/01/2024 10:00 - 1 itens sorteados (Coluna: A)\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}
