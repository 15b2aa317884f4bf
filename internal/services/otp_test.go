package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_Range(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		code, _, err := GenerateOTP()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, code, 100000)
		assert.LessOrEqual(t, code, 999999)
	}
}

func TestGenerateOTP_Expiry(t *testing.T) {
	t.Parallel()

	before := time.Now()
	_, expiry, err := GenerateOTP()
	require.NoError(t, err)

	assert.WithinDuration(t, before.Add(time.Hour), expiry, 5*time.Second)
}
