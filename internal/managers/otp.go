package managers

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// OTPLength is the number of digits in a pickup code.
const OTPLength = 4

var otpSpace = big.NewInt(10000)

// OTPGenerator returns a fresh pickup code.
type OTPGenerator func() (string, error)

// GenerateOTP draws a 4-digit code uniformly from 0000-9999 using crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}

func otpEqual(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
