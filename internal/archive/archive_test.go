// Public domain.

package archive_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolabs/difphot/internal/archive"
	"github.com/astrolabs/difphot/internal/phot"
)

func det(n int, ra, dec, mag, err float64) phot.Detection {
	return phot.Detection{
		VMeas: observation.VMeas{
			MJD: 60100.25,
			Equa: coord.Equa{
				RA:  unit.RAFromDeg(ra),
				Dec: unit.AngleFromDeg(dec),
			},
			VMag: mag,
			Qual: "GaiaSP/g",
		},
		Number: n,
		X:      float64(10 * n),
		Y:      float64(20 * n),
		MagErr: err,
		Object: "GaiaTest",
	}
}

func sample(created time.Time) *archive.Archive {
	r := archive.NewRun("GaiaTest", 60100, 60110)
	r.Created = created
	return &archive.Archive{
		Run: r,
		Epochs: []phot.Epoch{{
			ID:     7,
			MJD:    60100.25,
			Band:   "GaiaSP/g",
			Object: "GaiaTest",
			Detections: []phot.Detection{
				det(1, 150, 20, -9.5, .004),
				det(2, 150.01, 20, -10.25, .003),
			},
		}},
	}
}

func TestNewRun(t *testing.T) {
	a := archive.NewRun("x", 1, 2)
	b := archive.NewRun("x", 1, 2)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, time.UTC, a.Created.Location())
}

func TestIsSQLite(t *testing.T) {
	assert.True(t, archive.IsSQLite("data/x.db"))
	assert.True(t, archive.IsSQLite("x.SQLite"))
	assert.True(t, archive.IsSQLite("x.sqlite3"))
	assert.False(t, archive.IsSQLite(archive.DefaultFile))
	assert.False(t, archive.IsSQLite("db"))
}

func TestGobRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sub", "phot.gob")
	want := sample(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, archive.WriteFile(fn, want))
	got, err := archive.ReadFile(fn)
	require.NoError(t, err)
	if d := cmp.Diff(want, got); d != "" {
		t.Fatal(d)
	}
}

func TestGobMissing(t *testing.T) {
	_, err := archive.ReadFile(filepath.Join(t.TempDir(), "none.gob"))
	assert.Error(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "phot.db")
	want := sample(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	want.Epochs[0].Detections[1].VMag = math.NaN()
	require.NoError(t, archive.WriteFile(fn, want))

	got, err := archive.ReadFile(fn)
	require.NoError(t, err)
	require.Len(t, got.Epochs, 1)
	g := got.Epochs[0].Detections
	require.Len(t, g, 2)
	assert.True(t, math.IsNaN(g[1].VMag))
	assert.False(t, g[1].Finite())

	// NaN != NaN, compare the rest with it cleared
	want.Epochs[0].Detections[1].VMag = 0
	g[1].VMag = 0
	if d := cmp.Diff(want.Run, got.Run); d != "" {
		t.Error(d)
	}
	for i := range g {
		w := want.Epochs[0].Detections[i]
		assert.Equal(t, w.Number, g[i].Number)
		assert.Equal(t, w.Object, g[i].Object)
		assert.Equal(t, w.Qual, g[i].Qual)
		assert.InDelta(t, w.RA.Deg(), g[i].RA.Deg(), 1e-12)
		assert.InDelta(t, w.Dec.Deg(), g[i].Dec.Deg(), 1e-12)
		assert.Equal(t, w.VMag, g[i].VMag)
		assert.Equal(t, w.MagErr, g[i].MagErr)
		assert.Equal(t, w.X, g[i].X)
	}
}

func TestSQLiteLatestRun(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "phot.sqlite")
	old := sample(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	old.Target = "Older"
	recent := sample(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	recent.Epochs[0].ID = 8
	require.NoError(t, archive.WriteFile(fn, recent))
	require.NoError(t, archive.WriteFile(fn, old))

	db, err := archive.Open(fn)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Older", runs[0].Target)

	v, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)

	a, err := db.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, recent.ID, a.ID)
	assert.Equal(t, int64(8), a.Epochs[0].ID)
}

func TestSQLiteSameSecond(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "phot.db")
	sec := time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC)
	first := sample(sec)
	first.Target = "First"
	second := sample(sec.Add(500 * time.Millisecond))
	second.Target = "Second"
	third := sample(sec.Add(time.Second + 1))
	third.Target = "Third"
	for _, a := range []*archive.Archive{second, third, first} {
		require.NoError(t, archive.WriteFile(fn, a))
	}

	db, err := archive.Open(fn)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.Runs()
	require.NoError(t, err)
	var got []string
	for _, r := range runs {
		got = append(got, r.Target)
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, got)
	assert.True(t, runs[1].Created.Equal(second.Created))

	a, err := db.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, third.ID, a.ID)
}

func TestSQLiteForeignKeys(t *testing.T) {
	db, err := archive.Open(filepath.Join(t.TempDir(), "phot.db"))
	require.NoError(t, err)
	defer db.Close()

	// hold several connections at once so the pool has to open new ones
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		c, err := db.Conn(ctx)
		require.NoError(t, err)
		defer c.Close()
		var on int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on))
		assert.Equal(t, 1, on, "connection %d", i)
		_, err = c.ExecContext(ctx, `INSERT INTO detections
			(run_id, data_id, seq, number, ra, dec) VALUES ('none', 1, 0, 1, 0, 0)`)
		assert.Error(t, err, "connection %d", i)
	}
}

func TestSQLiteEmpty(t *testing.T) {
	db, err := archive.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.LatestRun()
	assert.ErrorIs(t, err, archive.ErrNoRuns)
}

func TestSQLiteMissing(t *testing.T) {
	_, err := archive.ReadFile(filepath.Join(t.TempDir(), "none.db"))
	assert.Error(t, err)
}
