package klinetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimezoneRef_Resolve(t *testing.T) {
	t.Run("named UTC", func(t *testing.T) {
		loc, err := TZ("UTC").Resolve()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("named IANA zone", func(t *testing.T) {
		loc, err := TZ("Europe/Madrid").Resolve()
		require.NoError(t, err)
		assert.Equal(t, "Europe/Madrid", loc.String())
	})

	t.Run("pre-resolved location", func(t *testing.T) {
		madrid, err := time.LoadLocation("Europe/Madrid")
		require.NoError(t, err)
		loc, err := TZLocation(madrid).Resolve()
		require.NoError(t, err)
		assert.Same(t, madrid, loc)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := TZ("Not/AZone").Resolve()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTimezone)
	})

	t.Run("zero value", func(t *testing.T) {
		_, err := TimezoneRef{}.Resolve()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTimezone)
	})

	t.Run("nil location", func(t *testing.T) {
		_, err := TZLocation(nil).Resolve()
		assert.ErrorIs(t, err, ErrInvalidTimezone)
	})
}
