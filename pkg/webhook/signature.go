package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

const (
	HeaderSignature = "X-Entityhub-Signature"
	HeaderTimestamp = "X-Entityhub-Timestamp"
	HeaderID        = "X-Entityhub-Delivery"
	HeaderMethod    = "X-Entityhub-Method"
)

// Sign returns the hex HMAC-SHA256 of "{unix timestamp}.{body}".
func Sign(secret string, ts time.Time, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a delivery on the receiving side. Deliveries older or newer
// than tolerance relative to now are refused; a zero tolerance disables the check.
func Verify(secret string, body []byte, signature, timestamp string, tolerance time.Duration, now time.Time) error {
	sec, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	ts := time.Unix(sec, 0)
	if tolerance > 0 {
		if d := now.Sub(ts); d > tolerance || d < -tolerance {
			return ErrSignatureExpired
		}
	}

	want := Sign(secret, ts, body)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
