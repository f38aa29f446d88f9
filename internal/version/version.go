package version

const Value = "0.3.0"

func ScannerUserAgent() string {
	return "Posture/" + Value + " (defensive security scanner)"
}

func APIServerName() string {
	return "posture-api/" + Value
}
