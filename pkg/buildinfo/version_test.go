package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	}

	got := fill(Info{Version: "dev", Commit: "none", Date: "unknown"}, bi)
	want := Info{Version: "v0.3.1", Commit: "abc123", Date: "2026-10-01T12:00:00Z"}
	if got != want {
		t.Errorf("fill() = %+v, want %+v", got, want)
	}

	stamped := Info{Version: "v1.0.0", Commit: "fff", Date: "today"}
	if got := fill(stamped, bi); got != stamped {
		t.Errorf("fill() overrode ldflags values: %+v", got)
	}

	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	if got := fill(Info{Version: "dev"}, devel); got.Version != "dev" {
		t.Errorf("(devel) should not replace dev, got %q", got.Version)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{"{{.Name}}", "{{.Version}}", "commit ", "built "} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() missing %q: %q", want, tmpl)
		}
	}
}
