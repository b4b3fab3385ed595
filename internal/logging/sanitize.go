package logging

import (
	"regexp"
	"strings"
)

type redaction struct {
	pattern *regexp.Regexp
	replace string
}

// Ordered most-specific first so a broad rule never mangles an
// already-redacted match.
var redactions = []redaction{
	{regexp.MustCompile(`(?i)(--(?:token|access-token|api-key|apikey|secret|password|passwd|authorization|auth|cookie|session|client-secret|bearer))(=|\s+)(\S+)`), "$1$2<redacted>"},
	{regexp.MustCompile(`(?i)\b([A-Z0-9_]*?(?:TOKEN|SECRET|PASSWORD|PASS|API_KEY|APIKEY|AUTH|AUTHORIZATION|BEARER|COOKIE|SESSION|CLIENT_SECRET)[A-Z0-9_]*)=([^\s]+)`), "$1=<redacted>"},
	{regexp.MustCompile(`(?i)\bAuthorization:\s*Bearer\s+[^\s"'` + "`" + `]+`), "Authorization: Bearer <redacted>"},
	{regexp.MustCompile(`(?i)\bAuthorization[:=]\s*[^\s"'` + "`" + `]+`), "Authorization:<redacted>"},
	{regexp.MustCompile(`(?i)\bBearer\s+[^\s]+`), "Bearer <redacted>"},
	// nmcli, wpa_cli and iwctl take the passphrase as a bare word after
	// a keyword rather than behind a flag.
	{regexp.MustCompile(`(?i)\b(password|passphrase|psk|wep-key\d?)(\s+)(\S+)`), "$1$2<redacted>"},
}

// SanitizeCommand redacts tokens, passphrases and auth headers from a
// command line before it is logged or echoed.
func SanitizeCommand(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, rule := range redactions {
		value = rule.pattern.ReplaceAllString(value, rule.replace)
	}
	return value
}
