package signature

const (
	redactionMarker   = "...<redacted>"
	shortPlaceholder  = "<redacted>"
	redactRetainChars = 4
	redactMinLength   = 8
)

// Redact reduces a matched secret to a bounded prefix plus a marker. The
// raw value must never reach a finding; this is the only form in which a
// match may appear in output.
func Redact(value string) string {
	if len(value) < redactMinLength {
		return shortPlaceholder
	}
	return value[:redactRetainChars] + redactionMarker
}
