package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"therawking/internal/apperrors"
)

// DefaultSignatureTolerance is how far a webhook timestamp may drift from the
// local clock before the event is rejected.
const DefaultSignatureTolerance = 5 * time.Minute

// VerifySignature checks a Stripe-style signature header against the raw
// webhook payload. The header carries a unix timestamp and one or more v1
// HMAC-SHA256 signatures over "<timestamp>.<payload>":
//
//	t=1712000000,v1=5257a869e7...
//
// Any verification failure returns ErrInvalidSignature.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration) error {
	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	if tolerance > 0 {
		drift := time.Since(time.Unix(timestamp, 0))
		if drift < 0 {
			drift = -drift
		}
		if drift > tolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", apperrors.ErrInvalidSignature)
		}
	}

	expected := ComputeSignature(payload, timestamp, secret)
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching v1 signature", apperrors.ErrInvalidSignature)
}

// ComputeSignature returns the hex HMAC-SHA256 of "<timestamp>.<payload>".
func ComputeSignature(payload []byte, timestamp int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeader builds a valid header for the given payload, as the gateway
// would send it. Tests use it to sign synthetic events.
func SignatureHeader(payload []byte, timestamp int64, secret string) string {
	return fmt.Sprintf("t=%d,v1=%s", timestamp, ComputeSignature(payload, timestamp, secret))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", apperrors.ErrInvalidSignature)
	}

	var timestamp int64 = -1
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", apperrors.ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: malformed signature header", apperrors.ErrInvalidSignature)
	}
	return timestamp, signatures, nil
}
