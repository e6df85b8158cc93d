package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoned_Now_UsesConfiguredLocation(t *testing.T) {
	z, err := NewZoned("Asia/Seoul")
	require.NoError(t, err)

	assert.Equal(t, "Asia/Seoul", z.Now().Location().String())
	assert.Equal(t, "Asia/Seoul", z.Location().String())
}

func TestNewZoned_UnknownZone(t *testing.T) {
	_, err := NewZoned("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestFixed_Set(t *testing.T) {
	t0 := time.Date(2025, 3, 4, 7, 30, 0, 0, time.UTC)
	c := NewFixed(t0)
	assert.True(t, c.Now().Equal(t0))

	t1 := t0.Add(time.Hour)
	c.Set(t1)
	assert.True(t, c.Now().Equal(t1))
}
