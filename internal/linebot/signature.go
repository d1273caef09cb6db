package linebot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature checks the x-line-signature header against the raw
// request body. The expected value is Base64(HMAC-SHA256(body)) keyed
// with the channel secret; the comparison is constant-time.
func VerifySignature(channelSecret, signature string, body []byte) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)

	return hmac.Equal(decoded, mac.Sum(nil))
}
