package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func sign(orderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_key_secret"

	sig := sign("order_abc", "pay_123", secret)
	require.True(t, VerifySignature("order_abc", "pay_123", sig, secret))
}

func TestVerifySignature_Rejections(t *testing.T) {
	const secret = "test_key_secret"
	sig := sign("order_abc", "pay_123", secret)

	require.False(t, VerifySignature("order_abc", "pay_123", sig+"00", secret), "tampered signature")
	require.False(t, VerifySignature("order_abc", "pay_999", sig, secret), "different payment id")
	require.False(t, VerifySignature("order_xyz", "pay_123", sig, secret), "different order id")
	require.False(t, VerifySignature("order_abc", "pay_123", sig, "other_secret"), "wrong secret")
	require.False(t, VerifySignature("order_abc", "pay_123", "", secret), "empty signature")
}
