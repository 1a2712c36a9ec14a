package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, known := range AllStatuses() {
		got, err := ParseStatus(string(known))
		require.NoError(t, err)
		assert.Equal(t, known, got)
	}
}

func TestParseStatus_Rejections(t *testing.T) {
	for _, value := range []string{"", "Unknown", "shipped", "NOT PROCESSED"} {
		_, err := ParseStatus(value)
		require.Error(t, err, value)
		assert.Equal(t, KindStatusValidation, KindOf(err))
	}
}

func TestAllStatuses_Order(t *testing.T) {
	assert.Equal(t, []Status{
		StatusNotProcessed,
		StatusProcessing,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
	}, AllStatuses())
}
