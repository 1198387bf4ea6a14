// Public domain.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolabs/difphot/internal/phot"
)

func TestSelectEpoch(t *testing.T) {
	e := []phot.Epoch{{ID: 5, MJD: 60002}, {ID: 3, MJD: 60001}, {ID: 9, MJD: 60003}}
	ep, err := selectEpoch(e, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ep.ID)

	ep, err = selectEpoch(e, 9)
	require.NoError(t, err)
	assert.Equal(t, 60003., ep.MJD)

	_, err = selectEpoch(e, 4)
	assert.Error(t, err)
}
