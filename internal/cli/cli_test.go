package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/svcgraph/pkg/graph"
)

const platformYAML = `- name: gateway
  output: orders
- name: orders
  children:
    - idStuff: g1
      childs:
        - name: validate
        - name: persist
          input: validate
- name: billing
`

// testEnv points config, cache and store at a temp dir and captures status
// output.
func testEnv(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("SVCGRAPH_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("SVCGRAPH_STORE_BACKEND", "badger")
	t.Setenv("SVCGRAPH_STORE_PATH", filepath.Join(dir, "store"))

	out = &bytes.Buffer{}
	prev := stdout
	stdout = out
	t.Cleanup(func() { stdout = prev })
	return dir, out
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestFlattenCommand(t *testing.T) {
	dir, _ := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "platform.yaml"), platformYAML)
	output := filepath.Join(dir, "platform.json")

	if err := run(t, "flatten", input, "-o", output, "--direction", "TB"); err != nil {
		t.Fatalf("flatten: %v", err)
	}

	res, err := graph.ReadResultFile(output)
	if err != nil {
		t.Fatalf("ReadResultFile() error: %v", err)
	}
	if res.Document != "platform" {
		t.Errorf("Document = %q, want platform", res.Document)
	}
	if got := res.NodeCount(); got != 5 {
		t.Errorf("NodeCount() = %d, want 5", got)
	}
	if got := res.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount() = %d, want 2", got)
	}
	if res.Root.Direction != graph.TopToBottom {
		t.Errorf("Direction = %q, want TB", res.Root.Direction)
	}
}

func TestFlattenCommandErrors(t *testing.T) {
	dir, _ := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "platform.yaml"), platformYAML)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"flatten", filepath.Join(dir, "nope.yaml")}},
		{"unknown extension", []string{"flatten", writeFile(t, filepath.Join(dir, "x.txt"), "")}},
		{"bad direction", []string{"flatten", input, "--direction", "diagonal"}},
		{"bad ids", []string{"flatten", input, "--ids", "random"}},
		{"no args", []string{"flatten"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir, out := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "platform.yaml"), platformYAML)
	base := filepath.Join(dir, "out", "platform")
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := run(t, "render", input, "-f", "svg,dot", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg output missing <svg")
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("dot not written: %v", err)
	}
	if !strings.Contains(string(dot), "digraph") {
		t.Error("dot output missing digraph")
	}
	if !strings.Contains(out.String(), "platform.svg") {
		t.Errorf("status output should list written files, got %q", out.String())
	}
}

func TestRenderCommandFlags(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	cmd, _, err := root.Find([]string{"render"})
	if err != nil {
		t.Fatalf("find render: %v", err)
	}
	for name, want := range map[string]string{
		"engine":    "native",
		"ids":       "sequential",
		"highlight": "",
	} {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Errorf("render has no --%s flag", name)
			continue
		}
		if f.DefValue != want {
			t.Errorf("--%s default = %q, want %q", name, f.DefValue, want)
		}
	}
}

func TestRenderCommandHighlight(t *testing.T) {
	dir, _ := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "platform.yaml"), platformYAML)
	output := filepath.Join(dir, "platform.svg")

	if err := run(t, "render", input, "--engine", "native", "--highlight", "billing", "-o", output); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.Contains(string(svg), ` highlight"`) {
		t.Error("highlighted node missing from svg")
	}
}

func TestRenderCommandGroup(t *testing.T) {
	dir, _ := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "platform.yaml"), platformYAML)
	output := filepath.Join(dir, "orders.dot")

	if err := run(t, "render", input, "-f", "dot", "--group", "orders", "-o", output); err != nil {
		t.Fatalf("render: %v", err)
	}
	dot, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("dot not written: %v", err)
	}
	if !strings.Contains(string(dot), "validate") || strings.Contains(string(dot), "gateway") {
		t.Errorf("group render should contain only group members:\n%s", dot)
	}

	if err := run(t, "render", input, "--group", "nope"); err == nil {
		t.Error("unknown group path should fail")
	}
}

func TestDocsCommands(t *testing.T) {
	dir, out := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "platform.yaml"), platformYAML)

	if err := run(t, "docs", "put", input); err != nil {
		t.Fatalf("docs put: %v", err)
	}
	if err := run(t, "docs", "put", input, "--name", "Billing"); err != nil {
		t.Fatalf("docs put --name: %v", err)
	}

	out.Reset()
	if err := run(t, "docs", "list"); err != nil {
		t.Fatalf("docs list: %v", err)
	}
	if got := strings.Fields(out.String()); len(got) != 2 || got[0] != "Billing" || got[1] != "platform" {
		t.Errorf("docs list = %v, want [Billing platform]", got)
	}

	out.Reset()
	if err := run(t, "docs", "list", "--search", "BILL"); err != nil {
		t.Fatalf("docs list --search: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Billing" {
		t.Errorf("docs list --search = %q, want Billing", got)
	}

	out.Reset()
	if err := run(t, "docs", "get", "platform", "-f", "json"); err != nil {
		t.Fatalf("docs get: %v", err)
	}
	if !strings.Contains(out.String(), `"persist"`) {
		t.Errorf("docs get output missing persist: %s", out.String())
	}

	if err := run(t, "flatten", "--from-store", "platform", "-o", filepath.Join(dir, "stored.json")); err != nil {
		t.Fatalf("flatten --from-store: %v", err)
	}

	if err := run(t, "docs", "delete", "platform"); err != nil {
		t.Fatalf("docs delete: %v", err)
	}
	if err := run(t, "docs", "get", "platform"); err == nil {
		t.Error("get after delete should fail")
	}
	if err := run(t, "docs", "delete", "platform"); err == nil {
		t.Error("second delete should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	dir, out := testEnv(t)
	input := writeFile(t, filepath.Join(dir, "platform.yaml"), platformYAML)

	if err := run(t, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	cacheDir := filepath.Join(dir, "cache")
	if got := strings.TrimSpace(out.String()); got != cacheDir {
		t.Errorf("cache path = %q, want %q", got, cacheDir)
	}

	if err := run(t, "flatten", input, "-o", filepath.Join(dir, "p.json")); err != nil {
		t.Fatalf("flatten: %v", err)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) == 0 {
		t.Fatal("flatten should populate the file cache")
	}

	if err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ = os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestCompletionCommand(t *testing.T) {
	_, out := testEnv(t)
	if err := run(t, "completion", "bash"); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out.String(), "svcgraph") {
		t.Error("bash completion should mention svcgraph")
	}
	if err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestConfigFlag(t *testing.T) {
	dir, _ := testEnv(t)
	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), "layout:\n  direction: sideways\n")
	if err := run(t, "--config", bad, "cache", "path"); err == nil {
		t.Error("invalid config should fail")
	}
	if err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "cache", "path"); err == nil {
		t.Error("missing explicit config should fail")
	}
}
