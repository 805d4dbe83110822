package cell

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"s2tile/internal/geo"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		level    int
		expected geo.Face
	}{
		{name: "Face", text: "0/", level: 0, expected: 0},
		{name: "Level 3", text: "3/021", level: 3, expected: 3},
		{name: "Last face", text: "5/3333", level: 4, expected: 5},
		{name: "Leaf", text: "1/012301230123012301230123012301", level: 30, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromString(tt.text)
			require.NoError(t, err)
			require.Equal(t, tt.level, c.Level())
			require.Equal(t, tt.expected, c.Face())
			require.Equal(t, tt.text, c.String())
			require.Equal(t, tt.text, c.ToS2().String())
		})
	}
}

func TestStringRoundTripEveryLevel(t *testing.T) {
	r := rand.New(rand.NewSource(41))
	for face := geo.Face(0); face < geo.NumFaces; face++ {
		for level := 0; level <= geo.MaxLevel; level++ {
			shift := uint(geo.MaxLevel - level)
			c, err := FromFaceIJ(face, (r.Uint32()%geo.LimitIJ)>>shift, (r.Uint32()%geo.LimitIJ)>>shift, level)
			require.NoError(t, err)

			text := c.String()
			require.Len(t, text, 2+level)
			got, err := FromString(text)
			require.NoError(t, err)
			require.Equal(t, c, got, text)
			require.Equal(t, c.ToS2().String(), text)
		}
	}
}

func TestFromStringErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"3",
		"6/",
		"a/01",
		"3-021",
		"3/014",
		"3/0 1",
		"2/0123012301230123012301230123012",
	} {
		_, err := FromString(text)
		require.ErrorIs(t, err, ErrInvalidCell, "%q", text)
	}
}

func TestInvalidString(t *testing.T) {
	require.Equal(t, "Invalid: 0000000000000000", None.String())
}

func TestToken(t *testing.T) {
	r := rand.New(rand.NewSource(43))
	for n := 0; n < 500; n++ {
		c := randomCell(r, r.Intn(geo.MaxLevel+1))
		token := c.Token()
		require.Equal(t, c.ToS2().ToToken(), token)

		got, err := FromToken(token)
		require.NoError(t, err)
		require.Equal(t, c, got)
	}

	c, err := FromString("4/")
	require.NoError(t, err)
	require.Equal(t, "9", c.Token())

	for _, token := range []string{"", "X", "0", "c"} {
		_, err := FromToken(token)
		require.ErrorIs(t, err, ErrInvalidCell, "%q", token)
	}
}
