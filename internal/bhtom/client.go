// Public domain.

// Package bhtom retrieves photometry data products from the BHTOM catalog
// service.
//
// The service lists data products for a target by MJD range, one page at a
// time, and serves each product's source extraction catalog as a
// whitespace delimited table.
package bhtom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/astrolabs/difphot/internal/phot"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "https://bh-tom2.astrolabs.pl/common/api/"

// Client talks to the BHTOM API.
type Client struct {
	BaseURL string // with trailing slash
	Token   string
	CSRF    string
	HTTP    *http.Client

	// Skipped, if not nil, is called by FetchEpochs for each listed
	// product left out of the result.
	Skipped func(id int64, reason string)
}

// New creates a client.  Timeout bounds each request.
func New(baseURL, token, csrf string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		CSRF:    csrf,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Calibration is the part of a data product's calibration record used here.
type Calibration struct {
	MJD  *float64 `json:"mjd"`
	Band string   `json:"band"`
}

// Product is one entry of the data product listing.
type Product struct {
	ID          int64        `json:"id"`
	Calibration *Calibration `json:"calibration_data"`
}

// MJD returns the product's observation time.  ok is false if the listing
// carried none.
func (p *Product) MJD() (mjd float64, ok bool) {
	if p.Calibration == nil || p.Calibration.MJD == nil {
		return 0, false
	}
	return *p.Calibration.MJD, true
}

type listRequest struct {
	TargetName string  `json:"target_name"`
	MJDMin     float64 `json:"mjd_min"`
	MJDMax     float64 `json:"mjd_max"`
	Page       int     `json:"page"`
}

type listResponse struct {
	Data     []Product `json:"data"`
	NumPages int       `json:"num_pages"`
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", e.URL, e.Status)
}

// post sends body as JSON and returns the response body of a 2xx response.
func (c *Client) post(ctx context.Context, endpoint string, body interface{}) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := c.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.Token)
	if c.CSRF != "" {
		req.Header.Set("X-CSRFToken", c.CSRF)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{url, resp.Status, resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// ListProducts returns all data products of target within the MJD range,
// following pages until the last page or an empty page.
func (c *Client) ListProducts(ctx context.Context, target string, mjdMin, mjdMax float64) ([]Product, error) {
	var all []Product
	for page := 1; ; page++ {
		b, err := c.post(ctx, "data/", listRequest{target, mjdMin, mjdMax, page})
		if err != nil {
			return nil, err
		}
		var lr listResponse
		if err := json.Unmarshal(b, &lr); err != nil {
			return nil, fmt.Errorf("decode page %d: %w", page, err)
		}
		if len(lr.Data) == 0 {
			break
		}
		all = append(all, lr.Data...)
		log.Printf("page %d: %d data products", page, len(lr.Data))
		if lr.NumPages < 1 {
			lr.NumPages = 1
		}
		if page >= lr.NumPages {
			break
		}
	}
	return all, nil
}

// DownloadTable returns the source extraction table of one data product.
func (c *Client) DownloadTable(ctx context.Context, id int64) ([]Detection, error) {
	b, err := c.post(ctx, "downloadPhotometryFile/", struct {
		ID int64 `json:"id"`
	}{id})
	if err != nil {
		return nil, err
	}
	return ParseTable(bytes.NewReader(b))
}

// FetchEpochs lists the data products of target and downloads each one.
//
// Products without an MJD are skipped with a warning, as are products whose
// download fails with a non-2xx status or whose table holds no sources.
// Any other error ends the run.
func (c *Client) FetchEpochs(ctx context.Context, target string, mjdMin, mjdMax float64) ([]phot.Epoch, error) {
	prods, err := c.ListProducts(ctx, target, mjdMin, mjdMax)
	if err != nil {
		return nil, err
	}
	var epochs []phot.Epoch
	for i := range prods {
		p := &prods[i]
		mjd, ok := p.MJD()
		if !ok {
			log.Printf("Warning: no MJD for data id %d", p.ID)
			c.skip(p.ID, SkipNoMJD)
			continue
		}
		log.Printf("data id %d (MJD %.6f)", p.ID, mjd)
		dets, err := c.DownloadTable(ctx, p.ID)
		var se *StatusError
		switch {
		case errors.As(err, &se):
			log.Printf("Warning: download of data id %d failed: %s", p.ID, se.Status)
			c.skip(p.ID, SkipDownload)
			continue
		case err != nil:
			return nil, fmt.Errorf("data id %d: %w", p.ID, err)
		case len(dets) == 0:
			log.Printf("Warning: data id %d has no sources", p.ID)
			c.skip(p.ID, SkipEmpty)
			continue
		}
		epochs = append(epochs, Epoch(p, target, dets))
	}
	return epochs, nil
}

// Reasons passed to Client.Skipped.
const (
	SkipNoMJD    = "no mjd"
	SkipDownload = "download failed"
	SkipEmpty    = "no sources"
)

func (c *Client) skip(id int64, reason string) {
	if c.Skipped != nil {
		c.Skipped(id, reason)
	}
}

// Epoch converts a product and its table to a phot.Epoch.  Sources with
// RA outside [0, 360) or Dec outside [-90, 90] are left out.
func Epoch(p *Product, target string, dets []Detection) phot.Epoch {
	mjd, _ := p.MJD()
	var band string
	if p.Calibration != nil {
		band = p.Calibration.Band
	}
	e := phot.Epoch{
		ID:         p.ID,
		MJD:        mjd,
		Band:       band,
		Object:     target,
		Detections: make([]phot.Detection, 0, len(dets)),
	}
	for _, d := range dets {
		if d.RA < 0 || d.RA >= 360 || d.Dec < -90 || d.Dec > 90 {
			continue
		}
		e.Detections = append(e.Detections, d.Phot(mjd, band, target))
	}
	return e
}
