package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// UsageURL is the settings page that shows plan usage
	UsageURL = "https://claude.ai/settings/usage"
	// HomeURL is where login-only mode starts
	HomeURL = "https://claude.ai"

	usagePath    = "claude.ai/settings/usage"
	settingsPath = "claude.ai/settings"
)

var loginURLMarkers = []string{"/login", "/signin", "/auth", "accounts.google.com"}

var loginButtonTexts = []string{"sign in", "log in"}

// BodyText returns the text content of the document body
func BodyText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}
	return NormalizeSpace(doc.Find("body").Text()), nil
}

// IsLoginURL reports whether the URL is anything other than the settings area
func IsLoginURL(url string) bool {
	for _, marker := range loginURLMarkers {
		if strings.Contains(url, marker) {
			return true
		}
	}
	return !strings.Contains(url, settingsPath)
}

// HasLoginForm reports whether the document shows login inputs or buttons
func HasLoginForm(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	if doc.Find(`input[type="email"], input[type="password"]`).Length() > 0 {
		return true
	}

	found := false
	doc.Find("button").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// case-insensitive, with runs of whitespace collapsed
		text := strings.ToLower(strings.Join(strings.Fields(s.Text()), " "))
		for _, label := range loginButtonTexts {
			if strings.Contains(text, label) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// IsLoginPage combines the URL and DOM checks
func IsLoginPage(url, html string) bool {
	return IsLoginURL(url) || HasLoginForm(html)
}

// IsUsageURL reports whether the browser reached the usage page
func IsUsageURL(url string) bool {
	return strings.Contains(url, usagePath)
}

// IsSignedInURL reports whether the browser is on claude.ai outside the login flow
func IsSignedInURL(url string) bool {
	if !strings.Contains(url, "claude.ai") {
		return false
	}
	for _, marker := range []string{"login", "accounts.google", "oauth"} {
		if strings.Contains(url, marker) {
			return false
		}
	}
	return true
}
