package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrMalformed indicates the presented signature is not valid hex or does
// not have the digest's byte length. Distinguished from a plain mismatch so
// callers can report a format problem without leaking anything else.
var ErrMalformed = errors.New("malformed signature")

// Sign computes the hex HMAC-SHA256 digest of "orderID|paymentID" with the
// gateway key secret. This is the same construction Razorpay uses for its
// checkout receipt signatures.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the expected signature and compares it to sig.
// The comparison is constant-time (hmac.Equal), so timing does not reveal
// where the first differing byte occurs. Malformed input fails closed with
// ErrMalformed instead of panicking.
func Verify(orderID, paymentID, sig, secret string) (bool, error) {
	presented, err := hex.DecodeString(sig)
	if err != nil {
		return false, ErrMalformed
	}

	expected, err := hex.DecodeString(Sign(orderID, paymentID, secret))
	if err != nil {
		// Sign always produces valid hex
		return false, err
	}

	if len(presented) != len(expected) {
		return false, ErrMalformed
	}

	return hmac.Equal(expected, presented), nil
}
