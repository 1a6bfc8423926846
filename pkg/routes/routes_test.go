package routes

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Kagzat/kagzat-india-sub000/pkg/wizard"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		path   string
		screen Screen
		ok     bool
	}{
		{"/", ScreenLanding, true},
		{"", ScreenLanding, true},
		{"/form-builder", ScreenFormBuilder, true},
		{"/form-builder/", ScreenFormBuilder, true},
		{"form-builder", ScreenFormBuilder, true},
		{"/signup/owner?ref=ad", ScreenSignupOwner, true},
		{"//dashboard//validator", ScreenDashboardValidator, true},
		{"/auto-fill-demo#step-2", ScreenAutoFillDemo, true},
		{"/Search", ScreenNotFound, false},
		{"/dashboard", ScreenNotFound, false},
		{"/does/not/exist", ScreenNotFound, false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := Resolve(tc.path)
			if got.Screen != tc.screen || ok != tc.ok {
				t.Fatalf("Resolve(%q) = %s, %v; want %s, %v", tc.path, got.Screen, ok, tc.screen, tc.ok)
			}
		})
	}
}

func TestResolve_NotFoundKeepsPath(t *testing.T) {
	got, _ := Resolve("/missing/")
	want := Route{Path: "/missing", Screen: ScreenNotFound}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTable(t *testing.T) {
	tbl := Table()
	if len(tbl) != 15 {
		t.Fatalf("expected 15 routes, got %d", len(tbl))
	}
	tbl[0].Screen = ScreenNotFound
	if Table()[0].Screen != ScreenLanding {
		t.Fatalf("Table must return a copy")
	}

	seen := map[string]bool{}
	for _, r := range Table() {
		if seen[r.Path] {
			t.Fatalf("duplicate path %s", r.Path)
		}
		seen[r.Path] = true
		if Clean(r.Path) != r.Path {
			t.Fatalf("path %s is not clean", r.Path)
		}
	}
}

func TestFlowsExist(t *testing.T) {
	flows := wizard.Default()
	for _, r := range Table() {
		if r.Flow == "" {
			continue
		}
		if _, ok := flows.Flow(r.Flow); !ok {
			t.Errorf("route %s names unknown flow %q", r.Path, r.Flow)
		}
	}
	for _, id := range flows.IDs() {
		if _, ok := ForFlow(id); !ok {
			t.Errorf("flow %q has no route", id)
		}
	}
}
