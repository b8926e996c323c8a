package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"coffee_sync/internal/logger"
	"coffee_sync/internal/models"
	"coffee_sync/internal/observability"
)

// Authorization: <clock>!<hex HMAC-SHA256(secret, "<resourcePath>\n<clock>\n<body>")>
const (
	authHeaderName = "Authorization"
	hmacDelimiter  = "!"
)

// Reasons reported for rejected requests.
const (
	ReasonNoHeader          = "no_header"
	ReasonInvalidParts      = "invalid_parts"
	ReasonNoSecret          = "no_secret"
	ReasonSignatureMismatch = "signature_mismatch"
)

type HMACAuth struct {
	secret  string
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewHMACAuth(secret string, log *logger.Logger, metrics *observability.Metrics) *HMACAuth {
	return &HMACAuth{secret: secret, log: log, metrics: metrics}
}

// Verify reports whether ev carries a valid signature. It never fails loudly:
// each rejection is logged with its own reason and false is returned.
func (a *HMACAuth) Verify(ev models.HTTPEvent) bool {
	header, ok := lookupHeader(ev.Headers, authHeaderName)
	if !ok || header == "" {
		return a.reject(ReasonNoHeader, "no Authorization header found")
	}
	parts := strings.Split(header, hmacDelimiter)
	if len(parts) != 2 {
		return a.reject(ReasonInvalidParts, "invalid number of parts in Authorization header", "parts", len(parts))
	}
	clock, signature := parts[0], parts[1]

	if a.secret == "" {
		return a.reject(ReasonNoSecret, "HMAC secret not configured")
	}
	expected := SignHMAC(a.secret, ev.ResourcePath, clock, ev.Body)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return a.reject(ReasonSignatureMismatch, "HMAC signature did not match expected", "signature", signature)
	}
	return true
}

func (a *HMACAuth) reject(reason, msg string, kv ...interface{}) bool {
	if a.log != nil {
		a.log.Errorw("hmac_auth_rejected", append([]interface{}{"reason", reason, "detail", msg}, kv...)...)
	}
	a.metrics.AuthFailure(reason)
	return false
}

// SignHMAC returns the lowercase hex signature for a request.
func SignHMAC(secret, resourcePath, clock, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(resourcePath + "\n" + clock + "\n" + body))
	return hex.EncodeToString(mac.Sum(nil))
}

// AuthorizationHeader builds the full header value a caller must send.
func AuthorizationHeader(secret, resourcePath, clock, body string) string {
	return clock + hmacDelimiter + SignHMAC(secret, resourcePath, clock, body)
}

// lookupHeader finds name case-insensitively; API Gateway may lower-case headers.
func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
