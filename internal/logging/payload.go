package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/regenrek/metarbar/internal/limits"
)

// payloadPreview caps how much raw payload lands in a log line when
// payload logging is switched on.
const payloadPreview = 256

var includePayloads atomic.Bool

func setIncludePayloads(v bool) {
	includePayloads.Store(v)
}

// IncludePayloads reports whether raw payload bytes may appear in logs.
func IncludePayloads() bool {
	return includePayloads.Load()
}

// PayloadAttr builds a log attribute for fetched payload bytes. By
// default the bytes are replaced with their length and a hash prefix;
// a raw preview only appears when payload logging is enabled.
func PayloadAttr(key string, payload []byte) slog.Attr {
	if key == "" {
		key = "payload"
	}
	switch {
	case len(payload) == 0:
		return slog.String(key, `""`)
	case !IncludePayloads():
		return slog.String(key, fingerprint(payload))
	case len(payload) <= payloadPreview:
		return slog.String(key, fmt.Sprintf("%q", payload))
	default:
		head := payload[:payloadPreview]
		return slog.String(key, fmt.Sprintf("%q...(+%d bytes)", head, len(payload)-payloadPreview))
	}
}

// fingerprint summarizes a payload as length plus a short hash of its
// leading bytes. Hashing is capped so huge payloads stay cheap.
func fingerprint(payload []byte) string {
	data := payload
	hashed := len(payload)
	if limit := limits.PayloadInspectLimit; limit > 0 && len(data) > limit {
		data = data[:limit]
		hashed = limit
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])[:12]
	return fmt.Sprintf("redacted(len=%d sha256_prefix=%s prefix_len=%d)", len(payload), hash, hashed)
}
