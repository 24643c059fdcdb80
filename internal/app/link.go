package app

import (
	"net/url"
	"strings"
)

// DefaultQRSize is the target pixel size used when a caller does not ask for
// a specific one.
const DefaultQRSize = 300

// BuildAccessURL composes the respondent-facing form URL for a survey. Pure
// string composition: the same origin and ID always produce the same URL.
func BuildAccessURL(baseOrigin, surveyID string) string {
	return strings.TrimRight(baseOrigin, "/") + "/?form=" + url.QueryEscape(surveyID)
}
