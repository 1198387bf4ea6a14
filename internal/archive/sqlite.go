// Public domain.

package archive

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"
	_ "modernc.org/sqlite"

	"github.com/astrolabs/difphot/internal/phot"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// createdLayout is fixed width so that text order is time order.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB is an SQLite archive.
type DB struct {
	*sql.DB
}

// Open opens or creates an SQLite archive and brings its schema up to date.
func Open(path string) (*DB, error) {
	// the pragma goes in the DSN so every pooled connection gets it
	sdb, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	db := &DB{sdb}
	if err = db.MigrateUp(); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// MigrateUp runs all pending migrations.
func (db *DB) MigrateUp() error {
	m, err := db.newMigrate()
	if err != nil {
		return err
	}
	// m is not closed; that would close db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the schema version, 0 if no migration has run.
func (db *DB) MigrateVersion() (version uint, dirty bool, err error) {
	m, err := db.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (db *DB) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }

// SaveRun stores a run and its epochs in one transaction.
func (db *DB) SaveRun(a *Archive) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	if _, err = tx.Exec(`INSERT INTO runs (run_id, target, mjd_min, mjd_max, created)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Target, a.MJDMin, a.MJDMax, a.Created.UTC().Format(createdLayout)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	es, err := tx.Prepare(`INSERT INTO epochs (run_id, data_id, mjd, band, object)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer es.Close()
	ds, err := tx.Prepare(`INSERT INTO detections
		(run_id, data_id, seq, number, ra, dec, x, y, mag, magerr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ds.Close()
	for _, e := range a.Epochs {
		if _, err = es.Exec(a.ID, e.ID, e.MJD, e.Band, e.Object); err != nil {
			return fmt.Errorf("insert epoch %d: %w", e.ID, err)
		}
		for i, d := range e.Detections {
			if _, err = ds.Exec(a.ID, e.ID, i, d.Number, d.RA.Deg(), d.Dec.Deg(),
				nullable(d.X), nullable(d.Y), nullable(d.VMag), nullable(d.MagErr)); err != nil {
				return fmt.Errorf("insert epoch %d source %d: %w", e.ID, d.Number, err)
			}
		}
	}
	return tx.Commit()
}

// NaN is stored as NULL.
func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func nan(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Runs lists stored runs, oldest first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query(`SELECT run_id, target, mjd_min, mjd_max, created
		FROM runs ORDER BY created, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Target, &r.MJDMin, &r.MJDMax, &created); err != nil {
			return nil, err
		}
		if r.Created, err = time.Parse(createdLayout, created); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun reads the most recently created run.
func (db *DB) LatestRun() (*Archive, error) {
	runs, err := db.Runs()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return db.LoadRun(runs[len(runs)-1])
}

// LoadRun reads the epochs of run r in MJD order.
func (db *DB) LoadRun(r Run) (*Archive, error) {
	a := &Archive{Run: r}
	rows, err := db.Query(`SELECT data_id, mjd, band, object FROM epochs
		WHERE run_id = ? ORDER BY mjd, data_id`, r.ID)
	if err != nil {
		return nil, err
	}
	idx := map[int64]int{}
	for rows.Next() {
		var e phot.Epoch
		if err := rows.Scan(&e.ID, &e.MJD, &e.Band, &e.Object); err != nil {
			rows.Close()
			return nil, err
		}
		idx[e.ID] = len(a.Epochs)
		a.Epochs = append(a.Epochs, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query(`SELECT data_id, number, ra, dec, x, y, mag, magerr
		FROM detections WHERE run_id = ? ORDER BY data_id, seq`, r.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var ra, dec float64
		var x, y, mag, magErr sql.NullFloat64
		var n int
		if err := rows.Scan(&id, &n, &ra, &dec, &x, &y, &mag, &magErr); err != nil {
			return nil, err
		}
		i, ok := idx[id]
		if !ok {
			return nil, fmt.Errorf("source of unknown epoch %d", id)
		}
		e := &a.Epochs[i]
		e.Detections = append(e.Detections, phot.Detection{
			VMeas: observation.VMeas{
				MJD: e.MJD,
				Equa: coord.Equa{
					RA:  unit.RAFromDeg(ra),
					Dec: unit.AngleFromDeg(dec),
				},
				VMag: nan(mag),
				Qual: e.Band,
			},
			Number: n,
			X:      nan(x),
			Y:      nan(y),
			MagErr: nan(magErr),
			Object: e.Object,
		})
	}
	return a, rows.Err()
}
