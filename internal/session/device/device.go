package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent turns a raw User-Agent header into a short display name
// ("Chrome on Mac OS X") for session listings and audit events.
func ParseUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	osName := ua.OSInfo().Name
	if osName == "" {
		osName = ua.OS()
	}
	if osName == "" {
		osName = ua.Platform()
	}

	switch {
	case browser != "" && osName != "":
		return browser + " on " + osName
	case browser != "":
		return browser
	case osName != "":
		return osName
	default:
		return "Unknown Device"
	}
}
