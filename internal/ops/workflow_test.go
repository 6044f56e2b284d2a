package ops

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/sorteador/internal/config"
	"github.com/hpungsan/sorteador/internal/db"
	"github.com/hpungsan/sorteador/internal/history"
	"github.com/hpungsan/sorteador/internal/session"
	"github.com/hpungsan/sorteador/internal/testutil"
)

// TestFullWorkflow runs the life of a CLI user across separate invocations:
// load → draw (process exits) → export in a new process → history survives.
func TestFullWorkflow(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DocumentsDir = filepath.Join(dir, "Documents")
	histPath, err := cfg.HistoryPath()
	require.NoError(t, err)
	path := testutil.Roster(t, dir)

	database, err := db.Init(filepath.Join(dir, ".sorteador"))
	require.NoError(t, err)
	defer database.Close()

	open := func() *session.Session {
		hist, err := history.Load(histPath)
		require.NoError(t, err)
		s := session.New(cfg, hist, database, nil)
		require.NoError(t, s.Restore())
		return s
	}

	// 1. Load
	s := open()
	_, err = Load(s, LoadInput{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// 2. Ranked draw in a new invocation
	s = open()
	require.True(t, s.Loaded())
	drawOut, err := Ranked(s, RankedInput{Quantity: intPtr(2), PrizeMode: "default"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// 3. Export in another invocation
	s = open()
	require.NotNil(t, s.Last)
	require.Equal(t, drawOut.Result.Items, s.Last.Items)
	exportOut, err := Export(s, ExportInput{Path: filepath.Join(dir, "final.xlsx")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	rows := testutil.ReadRows(t, exportOut.Path)
	require.Contains(t, rows[5][0], "1º lugar: "+drawOut.Result.Items[0])
	require.Equal(t, "Prêmio: Gold", rows[5][1])

	// 4. History persisted once per draw
	s = open()
	h := History(s)
	require.Equal(t, 1, h.Count)
	require.Equal(t, history.KindRanked, h.Lines[0].Entry.Kind)

	// 5. Clear history; file removed and next session starts empty
	_, err = ClearHistory(s)
	require.NoError(t, err)
	s = open()
	require.Equal(t, 0, s.History.Len())
}
