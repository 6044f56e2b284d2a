package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/config"
	"github.com/hpungsan/sorteador/internal/db"
	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/ops"
	"github.com/hpungsan/sorteador/internal/session"
	"github.com/hpungsan/sorteador/internal/testutil"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// testConfig returns a default config rooted in dir.
func testConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.DocumentsDir = filepath.Join(dir, "Documents")
	return cfg
}

// openTestSession builds a session the same way main does, so each call
// behaves like a fresh CLI invocation.
func openTestSession(t *testing.T, cfg *config.Config, database *sql.DB) *session.Session {
	t.Helper()
	sess, err := openSession(cfg, database, zap.NewNop())
	if err != nil {
		t.Fatalf("openSession failed: %v", err)
	}
	return sess
}

// runCLI runs one invocation against a fresh session and returns stdout.
func runCLI(t *testing.T, cfg *config.Config, database *sql.DB, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	sess := openTestSession(t, cfg, database)
	err := newCLIApp(sess).Run(append([]string{"sorteador"}, args...))
	if cerr := sess.Close(); cerr != nil {
		t.Fatalf("session close failed: %v", cerr)
	}
	return buf.String(), err
}

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "no args", args: []string{"sorteador"}, want: false},
		{name: "known command", args: []string{"sorteador", "draw"}, want: true},
		{name: "serve", args: []string{"sorteador", "serve"}, want: true},
		{name: "mcp", args: []string{"sorteador", "mcp"}, want: true},
		{name: "help flag", args: []string{"sorteador", "--help"}, want: true},
		{name: "version flag", args: []string{"sorteador", "-v"}, want: true},
		{name: "unknown", args: []string{"sorteador", "shuffle"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCLIMode(tt.args); got != tt.want {
				t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{args: []string{"sorteador"}, want: false},
		{args: []string{"sorteador", "help"}, want: true},
		{args: []string{"sorteador", "-h"}, want: true},
		{args: []string{"sorteador", "--version"}, want: true},
		{args: []string{"sorteador", "load"}, want: false},
	}
	for _, tt := range tests {
		if got := isHelpOrVersion(tt.args); got != tt.want {
			t.Errorf("isHelpOrVersion(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestCLIWorkflowAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	database := setupTestDB(t)
	roster := testutil.Roster(t, dir)

	out, err := runCLI(t, cfg, database, "load", roster)
	require.NoError(t, err)
	var loaded ops.LoadOutput
	require.NoError(t, json.Unmarshal([]byte(out), &loaded))
	require.Equal(t, "A", loaded.Column)
	require.Equal(t, 5, loaded.Count)

	out, err = runCLI(t, cfg, database, "ranked", "-n", "2", "--prize-mode", "custom", "--prize", "Bicicleta", "--prize", "Livro")
	require.NoError(t, err)
	var ranked ops.DrawOutput
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Equal(t, draw.KindRanked, ranked.Result.Kind)
	require.Len(t, ranked.Result.Items, 2)
	require.Equal(t, []string{"Bicicleta", "Livro"}, ranked.Result.Prizes)
	require.Contains(t, ranked.Text, "RESULTADO COM COLOCAÇÃO")

	target := filepath.Join(dir, "saida", "resultado.xlsx")
	out, err = runCLI(t, cfg, database, "export", target)
	require.NoError(t, err)
	var exported ops.ExportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Equal(t, target, exported.Path)

	rows := testutil.ReadRows(t, target)
	require.NotEmpty(t, rows)
	require.Equal(t, "RESULTADOS DO SORTEIO", rows[0][0])

	out, err = runCLI(t, cfg, database, "history")
	require.NoError(t, err)
	var hist ops.HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &hist))
	require.Equal(t, 1, hist.Count)

	out, err = runCLI(t, cfg, database, "status")
	require.NoError(t, err)
	var status ops.StatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.True(t, status.HasResult)
	require.Equal(t, 1, status.Exports)
	require.NotNil(t, status.LastExport)
	require.Equal(t, target, status.LastExport.Path)

	out, err = runCLI(t, cfg, database, "history", "clear")
	require.NoError(t, err)
	var cleared ops.ClearHistoryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &cleared))
	require.Equal(t, 1, cleared.Cleared)

	histPath, err := cfg.HistoryPath()
	require.NoError(t, err)
	_, err = os.Stat(histPath)
	require.True(t, os.IsNotExist(err), "history file still present: %v", err)

	out, err = runCLI(t, cfg, database, "history")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &hist))
	require.Equal(t, 0, hist.Count)
}

func TestCLIColumnsAndColumn(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	database := setupTestDB(t)

	_, err := runCLI(t, cfg, database, "load", testutil.Roster(t, dir))
	require.NoError(t, err)

	out, err := runCLI(t, cfg, database, "column", "B")
	require.NoError(t, err)
	var loaded ops.LoadOutput
	require.NoError(t, json.Unmarshal([]byte(out), &loaded))
	require.Equal(t, "B", loaded.Column)
	require.Equal(t, "Classificação", loaded.Header)

	out, err = runCLI(t, cfg, database, "columns")
	require.NoError(t, err)
	var cols ops.ColumnsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &cols))
	require.Len(t, cols.Columns, 2)
	require.True(t, cols.Columns[1].Selected)
}

func TestCLIDrawVariants(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	database := setupTestDB(t)

	_, err := runCLI(t, cfg, database, "load", testutil.Roster(t, dir))
	require.NoError(t, err)

	out, err := runCLI(t, cfg, database, "draw")
	require.NoError(t, err)
	var plain ops.DrawOutput
	require.NoError(t, json.Unmarshal([]byte(out), &plain))
	require.Len(t, plain.Result.Items, cfg.DefaultQuantity)

	out, err = runCLI(t, cfg, database, "groups", "-g", "2")
	require.NoError(t, err)
	var groups ops.DrawOutput
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups.Result.Groups, 2)
	require.Len(t, groups.Result.Groups[0], 3)
	require.Len(t, groups.Result.Groups[1], 2)

	out, err = runCLI(t, cfg, database, "category", "-n", "2", "VIP")
	require.NoError(t, err)
	var cat ops.DrawOutput
	require.NoError(t, json.Unmarshal([]byte(out), &cat))
	require.ElementsMatch(t, []string{"Alice", "Carol"}, cat.Result.Items)

	out, err = runCLI(t, cfg, database, "ranked", "--prize-mode", "default")
	require.NoError(t, err)
	var ranked ops.DrawOutput
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Equal(t, []string{"Gold", "Silver", "Bronze"}, ranked.Result.Prizes)

	out, err = runCLI(t, cfg, database, "ranked", "-n", "2", "--prize-mode", "custom", "--prize", "R$ 1,000", "--prize", "Livro")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Equal(t, []string{"R$ 1,000", "Livro"}, ranked.Result.Prizes)
}

func TestCLIChart(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	database := setupTestDB(t)

	_, err := runCLI(t, cfg, database, "load", testutil.Roster(t, dir))
	require.NoError(t, err)

	target := filepath.Join(dir, "grafico.xlsx")
	out, err := runCLI(t, cfg, database, "chart", "--xlsx", target)
	require.NoError(t, err)
	var chart ops.ChartOutput
	require.NoError(t, json.Unmarshal([]byte(out), &chart))
	require.Equal(t, target, chart.Path)
	require.Equal(t, 4, chart.Total)

	rows := testutil.ReadRows(t, target)
	require.Equal(t, "Classificação", rows[0][0])
}

func TestCLIErrorHandling(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	database := setupTestDB(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "draw before load", args: []string{"draw"}, want: "[PRECONDITION_FAILED]"},
		{name: "export without result", args: []string{"export"}, want: "[PRECONDITION_FAILED]"},
		{name: "load without path", args: []string{"load"}, want: "[INVALID_REQUEST]"},
		{name: "load missing file", args: []string{"load", filepath.Join(dir, "nope.xlsx")}, want: "[NOT_FOUND]"},
		{name: "bad prize mode", args: []string{"ranked", "--prize-mode", "gold"}, want: "[INVALID_REQUEST]"},
		{name: "column without letter", args: []string{"column"}, want: "[INVALID_REQUEST]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, cfg, database, tt.args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("error = %q, want prefix %q", err.Error(), tt.want)
			}
		})
	}
}

func TestCLIOutOfRange(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	database := setupTestDB(t)

	_, err := runCLI(t, cfg, database, "load", testutil.Roster(t, dir))
	require.NoError(t, err)

	_, err = runCLI(t, cfg, database, "draw", "-n", "6")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "[OUT_OF_RANGE]"), err.Error())

	_, err = runCLI(t, cfg, database, "category", "Platinum")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "[EMPTY_SET]"), err.Error())
}

func TestCLICorruptHistoryStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	database := setupTestDB(t)

	histPath, err := cfg.HistoryPath()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(histPath), 0755))
	require.NoError(t, os.WriteFile(histPath, []byte("{not json"), 0644))

	sess := openTestSession(t, cfg, database)
	require.Equal(t, 0, sess.History.Len())
}

func TestLinePrompter(t *testing.T) {
	var prompts bytes.Buffer
	p := linePrompter(strings.NewReader("Bicicleta\n\nLivro\n"), &prompts)

	src := draw.CustomPrizes{Prompter: p}
	require.Equal(t, []string{"Bicicleta", "Livro"}, src.Prizes(5))
	require.Contains(t, prompts.String(), "Prêmio para o 1º lugar: ")
	require.Contains(t, prompts.String(), "Prêmio para o 4º lugar: ")
	require.NotContains(t, prompts.String(), "Prêmio para o 5º lugar: ")
}
