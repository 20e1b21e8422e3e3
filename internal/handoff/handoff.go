// Package handoff builds the messaging deep link that carries a booking
// request to the shop owner.
package handoff

import (
	"net/url"
	"regexp"
	"strings"
)

const baseURL = "https://wa.me/"

// OpenMode tells the client how to open the link.
type OpenMode string

const (
	// OpenNavigate replaces the current page; used on phones where the
	// messaging app intercepts the URL.
	OpenNavigate OpenMode = "navigate"
	// OpenNewWindow opens the link in a new browsing context.
	OpenNewWindow OpenMode = "new_window"
)

// Link is a ready-to-open handoff.
type Link struct {
	URL     string   `json:"url"`
	Mode    OpenMode `json:"mode"`
	Message string   `json:"message"`
}

var mobileUA = regexp.MustCompile(`(?i)android|iphone|ipad|ipod|mobile`)

var nonDigits = regexp.MustCompile(`\D+`)

// Builder produces links for a single destination number.
type Builder struct {
	phone string
}

// NewBuilder keeps only the digits of phone, which is the form wa.me
// expects ("+56 9 5646 8989" -> "56956468989").
func NewBuilder(phone string) *Builder {
	return &Builder{phone: nonDigits.ReplaceAllString(phone, "")}
}

// Phone returns the normalized destination.
func (b *Builder) Phone() string { return b.phone }

// Build returns the link for message, choosing the open mode from the
// requesting user agent.
func (b *Builder) Build(message, userAgent string) Link {
	return Link{
		URL:     URL(b.phone, message),
		Mode:    ModeFor(userAgent),
		Message: message,
	}
}

// URL encodes message as the text parameter. Spaces become %20 rather
// than "+", which some messaging clients render literally.
func URL(phone, message string) string {
	return baseURL + phone + "?text=" + Escape(message)
}

// Escape percent-encodes s for use inside a query value.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// IsMobile reports whether userAgent belongs to a phone or tablet.
func IsMobile(userAgent string) bool {
	return mobileUA.MatchString(userAgent)
}

// ModeFor maps a user agent to its open mode.
func ModeFor(userAgent string) OpenMode {
	if IsMobile(userAgent) {
		return OpenNavigate
	}
	return OpenNewWindow
}
