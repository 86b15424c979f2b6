package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestDecodeJSONRequest(t *testing.T) {
	var p point
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"x":3,"y":4}`))
	require.NoError(t, DecodeJSONRequest(r, &p))
	require.Equal(t, point{X: 3, Y: 4}, p)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"x":3,"z":4}`))
	require.ErrorContains(t, DecodeJSONRequest(r, &p), "invalid JSON")

	r = httptest.NewRequest("POST", "/", strings.NewReader(""))
	require.Error(t, DecodeJSONRequest(r, &p))
}

func TestDecodeOptionalJSONRequest(t *testing.T) {
	p := point{X: 1, Y: 1}
	r := httptest.NewRequest("POST", "/", strings.NewReader("  "))
	require.NoError(t, DecodeOptionalJSONRequest(r, &p))
	require.Equal(t, point{X: 1, Y: 1}, p)

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"y":7}`))
	require.NoError(t, DecodeOptionalJSONRequest(r, &p))
	require.Equal(t, point{X: 1, Y: 7}, p)
}
