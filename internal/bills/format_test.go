package bills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	t.Run("renders short french form", func(t *testing.T) {
		got, err := FormatDate("2023-04-01")
		require.NoError(t, err)
		assert.Equal(t, "1 Avr. 23", got)
	})

	t.Run("day without leading zero", func(t *testing.T) {
		got, err := FormatDate("2004-04-04")
		require.NoError(t, err)
		assert.Equal(t, "4 Avr. 04", got)
	})

	t.Run("january", func(t *testing.T) {
		got, err := FormatDate("2023-01-01")
		require.NoError(t, err)
		assert.Equal(t, "1 Jan. 23", got)
	})

	t.Run("end of year", func(t *testing.T) {
		got, err := FormatDate("2021-12-31")
		require.NoError(t, err)
		assert.Equal(t, "31 Déc. 21", got)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := FormatDate("Pouet")
		assert.Error(t, err)
	})

	t.Run("rejects impossible calendar date", func(t *testing.T) {
		_, err := FormatDate("2023-02-30")
		assert.Error(t, err)
	})
}

func TestFormatStatus(t *testing.T) {
	t.Run("known statuses", func(t *testing.T) {
		assert.Equal(t, "En attente", FormatStatus("pending"))
		assert.Equal(t, "Accepté", FormatStatus("accepted"))
		assert.Equal(t, "Refusé", FormatStatus("refused"))
	})

	t.Run("unknown status passes through", func(t *testing.T) {
		assert.Equal(t, "in progress", FormatStatus("in progress"))
		assert.Equal(t, "", FormatStatus(""))
	})
}
