package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Board [][]string `json:"board"`
	Rank  string     `json:"rank"`
	Count int        `json:"count"`
	Score float64    `json:"score"`
}

func TestEncodeDecode(t *testing.T) {
	in := sample{Board: [][]string{{"B", "."}, {".", "W"}}, Rank: "3d", Count: 5000, Score: -2.5}

	s, err := Encode(in)
	require.NoError(t, err)
	require.Equal(t, "3d", s.Fields["rank"].GetStringValue())

	var out sample
	require.NoError(t, Decode(s, &out))
	require.Equal(t, in, out)
}

func TestEncodeRejectsNonObject(t *testing.T) {
	_, err := Encode([]int{1, 2})
	require.Error(t, err)
}
