package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// otpValidity is how long a reset code stays usable.
const otpValidity = time.Hour

// GenerateOTP returns a uniformly random 6-digit reset code in
// [100000, 999999] and its absolute expiry.
func GenerateOTP() (int, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to generate OTP: %w", err)
	}
	return int(n.Int64()) + 100000, time.Now().Add(otpValidity), nil
}
