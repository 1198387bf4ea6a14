// Public domain.

package bhtom_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolabs/difphot/internal/bhtom"
)

const table = `#   1 NUMBER                 Running object number
#   2 ALPHA_J2000            Right ascension of barycenter (J2000)  [deg]
NUMBER ALPHA_J2000 DELTA_J2000 XWIN_IMAGE YWIN_IMAGE MAG_AUTO MAGERR_AUTO
   1  150.0000100  20.0000100  512.301  498.772  -9.1234  0.0040
   2  150.0100000  20.0000000  400.000  498.000  -9.7480  0.0030
   3  999.0000000  20.0000000  100.000  100.000  -8.0000  0.0100
   4  149.9900000  20.0100000  600.000  620.000  nan      nan
truncated line
`

func TestParseTable(t *testing.T) {
	d, err := bhtom.ParseTable(strings.NewReader(table))
	require.NoError(t, err)
	require.Len(t, d, 4)
	assert.Equal(t, 1, d[0].Number)
	assert.Equal(t, 150.00001, d[0].RA)
	assert.Equal(t, -9.1234, d[0].Mag)
	assert.Equal(t, .004, d[0].MagErr)
	assert.Equal(t, 512.301, d[0].X)
}

// fake serves two pages of two products.  Product 12 has no MJD and
// product 13 fails to download.
type fake struct {
	t        *testing.T
	pages    []int
	download []int64
}

func (f *fake) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, http.MethodPost, r.Method)
	assert.Equal(f.t, "Token secret", r.Header.Get("Authorization"))
	assert.Equal(f.t, "csrf", r.Header.Get("X-CSRFToken"))
	assert.Equal(f.t, "application/json", r.Header.Get("Content-Type"))
	switch r.URL.Path {
	case "/api/data/":
		var req map[string]interface{}
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, "GaiaTest", req["target_name"])
		assert.Equal(f.t, 60000., req["mjd_min"])
		page := int(req["page"].(float64))
		f.pages = append(f.pages, page)
		switch page {
		case 1:
			fmt.Fprint(w, `{"num_pages": 2, "data": [
				{"id": 11, "calibration_data": {"mjd": 60000.5, "band": "GaiaSP/g"}},
				{"id": 12, "calibration_data": {"band": "GaiaSP/g"}}]}`)
		case 2:
			fmt.Fprint(w, `{"num_pages": 2, "data": [
				{"id": 13, "calibration_data": {"mjd": 60001.5, "band": "GaiaSP/r"}},
				{"id": 14, "calibration_data": {"mjd": 60002.5, "band": "GaiaSP/r"}}]}`)
		default:
			f.t.Errorf("unexpected page %d", page)
		}
	case "/api/downloadPhotometryFile/":
		var req struct{ ID int64 }
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.download = append(f.download, req.ID)
		if req.ID == 13 {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, table)
	default:
		http.NotFound(w, r)
	}
}

func TestFetchEpochs(t *testing.T) {
	f := &fake{t: t}
	srv := httptest.NewServer(f)
	defer srv.Close()

	c := bhtom.New(srv.URL+"/api", "secret", "csrf", 5*time.Second)
	skipped := map[int64]string{}
	c.Skipped = func(id int64, reason string) { skipped[id] = reason }
	e, err := c.FetchEpochs(context.Background(), "GaiaTest", 60000, 60010)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{
		12: bhtom.SkipNoMJD,
		13: bhtom.SkipDownload,
	}, skipped)
	assert.Equal(t, []int{1, 2}, f.pages)
	assert.Equal(t, []int64{11, 13, 14}, f.download)

	require.Len(t, e, 2)
	assert.Equal(t, int64(11), e[0].ID)
	assert.Equal(t, 60000.5, e[0].MJD)
	assert.Equal(t, "GaiaSP/g", e[0].Band)
	assert.Equal(t, int64(14), e[1].ID)
	// source 3 has an invalid RA
	require.Len(t, e[0].Detections, 3)
	d := e[0].Detections[0]
	assert.Equal(t, 60000.5, d.MJD)
	assert.Equal(t, "GaiaSP/g", d.Qual)
	assert.Equal(t, "GaiaTest", d.Object)
	assert.InDelta(t, 150.00001, d.RA.Deg(), 1e-9)
	assert.False(t, e[0].Detections[2].Finite())
}

func TestListProductsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	c := bhtom.New(srv.URL+"/", "bad", "", time.Second)
	_, err := c.ListProducts(context.Background(), "x", 0, 1)
	var se *bhtom.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestListProductsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [], "num_pages": 0}`)
	}))
	defer srv.Close()

	p, err := bhtom.New(srv.URL, "t", "", time.Second).
		ListProducts(context.Background(), "x", 0, 1)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestNewDefaults(t *testing.T) {
	c := bhtom.New("", "t", "", time.Minute)
	assert.Equal(t, bhtom.DefaultBaseURL, c.BaseURL)
	assert.Equal(t, time.Minute, c.HTTP.Timeout)
}
