package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupLocale(t *testing.T) {
	l, err := LookupLocale("es-AR")
	require.NoError(t, err)
	assert.Equal(t, Spanish, l)

	l, err = LookupLocale("EN")
	require.NoError(t, err)
	assert.Equal(t, English, l)

	_, err = LookupLocale("fr")
	assert.Error(t, err)
}

func TestDayLabel(t *testing.T) {
	sunday := time.Date(2025, time.July, 6, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "dom 6", Spanish.DayLabel(sunday, false))
	assert.Equal(t, "dom 6 de julio", Spanish.DayLabel(sunday, true))
	assert.Equal(t, "Sun 6 July", English.DayLabel(sunday, true))
}
