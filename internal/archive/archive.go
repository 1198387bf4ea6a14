// Public domain.

// Package archive stores downloaded epochs between the fetch and process
// steps.
//
// Two formats are supported, chosen by file name extension.  Files ending
// in .db or .sqlite are SQLite databases which may hold many download
// runs.  Any other name is a gob file holding a single run.
package archive

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/astrolabs/difphot/internal/phot"
)

// DefaultFile is the archive written by fetch and read by process when no
// file is named.
const DefaultFile = "data/photometry_data.gob"

// Run describes one download.
type Run struct {
	ID      string
	Target  string
	MJDMin  float64
	MJDMax  float64
	Created time.Time
}

// NewRun creates a Run with a fresh id.
func NewRun(target string, mjdMin, mjdMax float64) Run {
	return Run{
		ID:      uuid.NewString(),
		Target:  target,
		MJDMin:  mjdMin,
		MJDMax:  mjdMax,
		Created: time.Now().UTC(),
	}
}

// Archive is a run and its epochs.
type Archive struct {
	Run
	Epochs []phot.Epoch
}

// IsSQLite reports whether fn names an SQLite archive.
func IsSQLite(fn string) bool {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// WriteFile stores a in fn.  A gob file is replaced.  In an SQLite
// archive the run is added to those already present.
func WriteFile(fn string, a *Archive) error {
	if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		return err
	}
	if IsSQLite(fn) {
		db, err := Open(fn)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.SaveRun(a)
	}
	return writeGob(fn, a)
}

// ReadFile reads an archive.  From an SQLite archive the most recent run
// is read.
func ReadFile(fn string) (*Archive, error) {
	if IsSQLite(fn) {
		if _, err := os.Stat(fn); err != nil {
			return nil, err
		}
		db, err := Open(fn)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.LatestRun()
	}
	return readGob(fn)
}

// gob file layout: Run, epoch count, then each epoch.

func writeGob(fn string, a *Archive) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	enc := gob.NewEncoder(f)
	if err = enc.Encode(a.Run); err != nil {
		f.Close()
		return err
	}
	if err = enc.Encode(len(a.Epochs)); err != nil {
		f.Close()
		return err
	}
	for i := range a.Epochs {
		if err = enc.Encode(&a.Epochs[i]); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

func readGob(fn string) (*Archive, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	var a Archive
	if err = dec.Decode(&a.Run); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	var n int
	if err = dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("%s: invalid epoch count %d", fn, n)
	}
	a.Epochs = make([]phot.Epoch, n)
	for i := range a.Epochs {
		if err = dec.Decode(&a.Epochs[i]); err != nil {
			return nil, fmt.Errorf("%s: epoch %d: %w", fn, i+1, err)
		}
	}
	return &a, nil
}

// ErrNoRuns is returned when an SQLite archive holds no runs.
var ErrNoRuns = errors.New("archive holds no runs")
