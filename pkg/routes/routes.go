// Package routes is the fixed path to screen table of the front-end and the
// resolver that maps any request path onto it.
package routes

import (
	"path"
	"strings"
)

// Screen names a top-level page.
type Screen string

const (
	ScreenLanding                Screen = "landing"
	ScreenAbout                  Screen = "about"
	ScreenSignupOwner            Screen = "signup-owner"
	ScreenSignupValidator        Screen = "signup-validator"
	ScreenSignupOrganization     Screen = "signup-organization"
	ScreenOnboardingOwner        Screen = "onboarding-owner"
	ScreenOnboardingValidator    Screen = "onboarding-validator"
	ScreenOnboardingOrganization Screen = "onboarding-organization"
	ScreenDashboardUser          Screen = "dashboard-user"
	ScreenDashboardValidator     Screen = "dashboard-validator"
	ScreenDashboardOrganization  Screen = "dashboard-organization"
	ScreenFormBuilder            Screen = "form-builder"
	ScreenSearch                 Screen = "search"
	ScreenDocumentVerification   Screen = "document-verification"
	ScreenAutoFillDemo           Screen = "auto-fill-demo"
	ScreenNotFound               Screen = "not-found"
)

// Route binds a path to a screen. Flow is the wizard flow id the screen
// drives, if any.
type Route struct {
	Path   string `json:"path"`
	Screen Screen `json:"screen"`
	Flow   string `json:"flow,omitempty"`
}

var table = []Route{
	{Path: "/", Screen: ScreenLanding},
	{Path: "/about", Screen: ScreenAbout},
	{Path: "/signup/owner", Screen: ScreenSignupOwner, Flow: "signup-owner"},
	{Path: "/signup/validator", Screen: ScreenSignupValidator, Flow: "signup-validator"},
	{Path: "/signup/organization", Screen: ScreenSignupOrganization, Flow: "signup-organization"},
	{Path: "/onboarding/owner", Screen: ScreenOnboardingOwner, Flow: "onboarding-owner"},
	{Path: "/onboarding/validator", Screen: ScreenOnboardingValidator, Flow: "onboarding-validator"},
	{Path: "/onboarding/organization", Screen: ScreenOnboardingOrganization, Flow: "onboarding-organization"},
	{Path: "/dashboard/user", Screen: ScreenDashboardUser},
	{Path: "/dashboard/validator", Screen: ScreenDashboardValidator},
	{Path: "/dashboard/organization", Screen: ScreenDashboardOrganization},
	{Path: "/form-builder", Screen: ScreenFormBuilder},
	{Path: "/search", Screen: ScreenSearch},
	{Path: "/document-verification", Screen: ScreenDocumentVerification},
	{Path: "/auto-fill-demo", Screen: ScreenAutoFillDemo, Flow: "auto-fill"},
}

var byPath = func() map[string]Route {
	out := make(map[string]Route, len(table))
	for _, r := range table {
		out[r.Path] = r
	}
	return out
}()

// Table returns a copy of the routing table in declaration order. The
// catch-all is implicit and not listed.
func Table() []Route {
	return append([]Route(nil), table...)
}

// Resolve maps a request path onto a route. Query strings, fragments,
// duplicate slashes and a trailing slash are ignored; matching is case
// sensitive. Unknown paths resolve to the not-found screen with ok false.
func Resolve(raw string) (Route, bool) {
	p := Clean(raw)
	if r, ok := byPath[p]; ok {
		return r, true
	}
	return Route{Path: p, Screen: ScreenNotFound}, false
}

// Clean normalises a request path the way Resolve sees it.
func Clean(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return "/"
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return path.Clean(raw)
}

// ForFlow returns the route whose screen drives the wizard flow id.
func ForFlow(flowID string) (Route, bool) {
	for _, r := range table {
		if r.Flow != "" && r.Flow == flowID {
			return r, true
		}
	}
	return Route{}, false
}
