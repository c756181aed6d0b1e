package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
)

func hmacHex(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	v := NewSignatureVerifier("api-secret", "webhook-secret")

	sig := hmacHex("api-secret", []byte("order_1|pay_1"))
	assert.NoError(t, v.VerifyPaymentSignature("order_1", "pay_1", sig))
}

func TestVerifyPaymentSignature_TamperedFails(t *testing.T) {
	v := NewSignatureVerifier("api-secret", "webhook-secret")

	sig := hmacHex("api-secret", []byte("order_1|pay_1"))

	// flip one nibble
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}

	err := v.VerifyPaymentSignature("order_1", "pay_1", string(tampered))
	assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
}

func TestVerifyPaymentSignature_WrongPairFails(t *testing.T) {
	v := NewSignatureVerifier("api-secret", "webhook-secret")

	sig := hmacHex("api-secret", []byte("order_1|pay_1"))
	err := v.VerifyPaymentSignature("order_2", "pay_1", sig)
	assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
}

func TestVerifyWebhookSignature_RawBodyBytes(t *testing.T) {
	v := NewSignatureVerifier("api-secret", "webhook-secret")

	// signature covers the exact bytes, whitespace included
	body := []byte(`{"event": "payment.captured",  "id":"evt_1"}`)
	sig := hmacHex("webhook-secret", body)
	assert.NoError(t, v.VerifyWebhookSignature(body, sig))

	reserialized := []byte(`{"event":"payment.captured","id":"evt_1"}`)
	err := v.VerifyWebhookSignature(reserialized, sig)
	assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
}

func TestVerifyWebhookSignature_UsesWebhookSecret(t *testing.T) {
	v := NewSignatureVerifier("api-secret", "webhook-secret")

	body := []byte(`{"event":"payment.captured"}`)
	// signed with the API secret instead of the webhook secret
	err := v.VerifyWebhookSignature(body, hmacHex("api-secret", body))
	assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
}

func TestSignatureVerifier_FailsClosedWithoutSecrets(t *testing.T) {
	v := NewSignatureVerifier("", "")

	err := v.VerifyPaymentSignature("order_1", "pay_1", "anything")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	err = v.VerifyWebhookSignature([]byte("{}"), "anything")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}
