package sanitize

import (
	"regexp"
	"strings"
)

var (
	// clientIDReplacer handles common separators in MQTT client ids
	clientIDReplacer = strings.NewReplacer(
		".", "-",
		"_", "-",
		" ", "-",
		"/", "-",
	)

	// nonClientIDRegex matches characters outside the conservative client id set
	nonClientIDRegex = regexp.MustCompile(`[^a-zA-Z0-9-]+`)

	// nonTopicRegex matches characters that are not safe inside a topic level
	nonTopicRegex = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

	// multiDashRegex matches multiple consecutive dashes
	multiDashRegex = regexp.MustCompile(`-+`)
)

// maxClientIDLen is the client identifier limit guaranteed to be accepted
// by MQTT 3.1 brokers.
const maxClientIDLen = 23

// ForClientID sanitizes a string for use as an MQTT client identifier.
// The result contains only alphanumerics and dashes and is truncated to
// 23 characters, the longest id every broker accepts.
func ForClientID(s string) string {
	if s == "" {
		return ""
	}

	s = clientIDReplacer.Replace(s)
	s = nonClientIDRegex.ReplaceAllString(s, "-")
	s = multiDashRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxClientIDLen {
		s = strings.Trim(s[:maxClientIDLen], "-")
	}
	return s
}

// ForTopicSegment sanitizes a string for use as a single MQTT topic level.
// Topic levels must not contain the wildcard characters '+' and '#', the
// level separator '/', or control characters.
func ForTopicSegment(s string) string {
	if s == "" {
		return ""
	}

	// Drop control characters outright before the class filter runs
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)

	s = strings.ReplaceAll(s, " ", "-")
	s = nonTopicRegex.ReplaceAllString(s, "-")
	s = multiDashRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
