package payments_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"therawking/internal/apperrors"
	"therawking/internal/payments"
)

func TestVerifySignature_RoundTrip(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := payments.SignatureHeader(payload, time.Now().Unix(), "whsec_abc")

	assert.NoError(t, payments.VerifySignature(payload, header, "whsec_abc", payments.DefaultSignatureTolerance))
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	payload := []byte(`{"amount":100}`)
	header := payments.SignatureHeader(payload, time.Now().Unix(), "whsec_abc")

	err := payments.VerifySignature([]byte(`{"amount":999}`), header, "whsec_abc", payments.DefaultSignatureTolerance)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	header := payments.SignatureHeader(payload, time.Now().Unix(), "whsec_other")

	err := payments.VerifySignature(payload, header, "whsec_abc", payments.DefaultSignatureTolerance)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	stale := time.Now().Add(-time.Hour).Unix()
	header := payments.SignatureHeader(payload, stale, "whsec_abc")

	err := payments.VerifySignature(payload, header, "whsec_abc", payments.DefaultSignatureTolerance)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)

	// With tolerance disabled the same header verifies.
	assert.NoError(t, payments.VerifySignature(payload, header, "whsec_abc", 0))
}

func TestVerifySignature_MalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)
	for _, header := range []string{
		"",
		"t=notanumber,v1=deadbeef",
		"v1=deadbeef",
		"t=123",
		"garbage",
	} {
		err := payments.VerifySignature(payload, header, "whsec_abc", payments.DefaultSignatureTolerance)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSignature, "header %q", header)
	}
}

func TestVerifySignature_MultipleV1Signatures(t *testing.T) {
	// During secret rotation the gateway sends one v1 entry per active secret;
	// any single match must pass.
	payload := []byte(`{}`)
	ts := time.Now().Unix()
	good := payments.ComputeSignature(payload, ts, "whsec_abc")
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", ts, "0000000000000000", good)

	assert.NoError(t, payments.VerifySignature(payload, header, "whsec_abc", payments.DefaultSignatureTolerance))
}
