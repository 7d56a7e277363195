package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/response"
)

// Header names of the internal API authentication.
const (
	APIKeyHeader    = "X-API-Key"
	TimeTokenHeader = "X-Time-Token"
)

// TimeTokenTTL is how long a time token stays valid after it was issued.
const TimeTokenTTL = 5 * time.Minute

// timeTokenKey derives the fernet key used for time tokens from the API key.
func timeTokenKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	var k fernet.Key
	copy(k[:], sum[:])
	return &k
}

// GenerateTimeToken issues a fernet token that carries the current time, encrypted with a key
// derived from apiKey. Callers send it as X-Time-Token next to X-API-Key.
// Returns an empty string if encryption fails.
func GenerateTimeToken(apiKey string) string {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	tok, err := fernet.EncryptAndSign([]byte(now), timeTokenKey(apiKey))
	if err != nil {
		return ""
	}
	return string(tok)
}

// APIKeyMiddleware guards the internal write endpoints used by the memo generation pipeline.
//
// A request must carry X-API-Key equal to apiKey and an X-Time-Token issued by
// GenerateTimeToken within the last TimeTokenTTL. Failures return 401; an empty apiKey
// returns 500 for every guarded request.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				response.RespondError(w, http.StatusInternalServerError, "server configuration error", "Authentication not loaded")
				return
			}

			providedKey := r.Header.Get(APIKeyHeader)
			if providedKey == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			timeToken := r.Header.Get(TimeTokenHeader)
			if timeToken == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
				return
			}
			msg := fernet.VerifyAndDecrypt([]byte(timeToken), TimeTokenTTL, []*fernet.Key{timeTokenKey(apiKey)})
			if msg == nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
