package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
)

// SignatureVerifier validates gateway-issued HMAC-SHA256 signatures: the
// synchronous path signs "order_id|payment_id" with the API secret, the
// webhook path signs the exact raw request body with the webhook secret.
// Both fail closed when the relevant secret is not configured.
type SignatureVerifier struct {
	apiSecret     string
	webhookSecret string
}

func NewSignatureVerifier(apiSecret, webhookSecret string) *SignatureVerifier {
	return &SignatureVerifier{apiSecret: apiSecret, webhookSecret: webhookSecret}
}

// VerifyPaymentSignature checks the signature over orderID + "|" + paymentID.
func (v *SignatureVerifier) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	if v.apiSecret == "" {
		return apperrors.ErrConfiguration
	}
	expected := signPayload(v.apiSecret, []byte(orderID+"|"+paymentID))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.ErrSignatureInvalid
	}
	return nil
}

// VerifyWebhookSignature checks the signature over the raw body bytes. The
// body must be the exact bytes received on the wire; a re-serialized form can
// differ byte-for-byte and break the signature.
func (v *SignatureVerifier) VerifyWebhookSignature(rawBody []byte, signature string) error {
	if v.webhookSecret == "" {
		return apperrors.ErrConfiguration
	}
	expected := signPayload(v.webhookSecret, rawBody)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.ErrSignatureInvalid
	}
	return nil
}

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
