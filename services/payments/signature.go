package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks a gateway payment callback. The gateway signs
// "orderId|paymentId" with HMAC-SHA256 under the shared key secret; the
// comparison is constant time. The gateway's own success flag is never
// trusted on its own.
func VerifySignature(gatewayOrderID, paymentID, signature, secret string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
