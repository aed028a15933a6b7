package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vitrinhq/vitrin/pkg/config"
	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/render"
)

const testCatalog = "testdata/catalog.yaml"

// isolate clears every variable config.ApplyEnv reads, points the XDG
// cache at a temp dir and runs the test from an empty directory so no
// vitrin.toml or .env is picked up.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"VITRIN_ADDR", "PORT", "VITRIN_BASE_URL", "VITRIN_STORE_DRIVER",
		"VITRIN_STORE_DSN", "DATABASE_URL", "VITRIN_CACHE_DRIVER",
		"VITRIN_REDIS_ADDR", "REDIS_URL", "CHROME_PATH", "VITRIN_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

// run executes the root command and returns what it wrote to cmd.OutOrStdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vitrin.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// copyCatalog copies the test catalog into a temp dir so outputs land there.
func copyCatalog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(testCatalogPath)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sonbahar.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// testCatalogPath is absolute so tests that chdir can still read it.
var testCatalogPath = func() string {
	p, err := filepath.Abs(testCatalog)
	if err != nil {
		return testCatalog
	}
	return p
}()

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"html"}},
		{"pdf", []string{"pdf"}},
		{"html,json", []string{"html", "json"}},
		{" PDF , png ,", []string{"pdf", "png"}},
	}

	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsCatalogFile(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{testCatalogPath, true},
		{"testdata", false},
		{"missing.yaml", false},
		{"yaz-koleksiyonu", false},
		{"cli.go", false},
	}

	for _, tt := range tests {
		if got := isCatalogFile(tt.ref); got != tt.want {
			t.Errorf("isCatalogFile(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name   string
		output string
		ref    string
		slug   string
		want   string
	}{
		{"from file", "", testCatalogPath, "x", strings.TrimSuffix(testCatalogPath, ".yaml")},
		{"from slug", "", "3f2b8c9e", "yaz", "yaz"},
		{"ref without slug", "", "yaz", "", "yaz"},
		{"explicit base", "out/spring", "yaz", "", "out/spring"},
		{"explicit with extension", "out/spring.pdf", "yaz", "", "out/spring"},
		{"unknown extension kept", "out/spring.v2", "yaz", "", "out/spring.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.output, tt.ref, tt.slug); got != tt.want {
				t.Errorf("outputBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeaderResolveJSON(t *testing.T) {
	isolate(t)

	out, err := run(t, "header", "resolve",
		"--logo-position", "header-center",
		"--title-position", "center",
		"--logo-size", "XL",
		"--json")
	if err != nil {
		t.Fatalf("header resolve: %v", err)
	}

	var got headerResolution
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.LogoSize != "xlarge" || got.LogoHeight != 60 {
		t.Errorf("size = %s/%d, want xlarge/60", got.LogoSize, got.LogoHeight)
	}
	if !got.Layout.IsCollisionCenter || got.Layout.FinalTitlePosition != header.TitleRight {
		t.Errorf("layout = %+v, want center collision moved right", got.Layout)
	}
	if got.BandHeight < 60 {
		t.Errorf("band = %d, want room for a 60px logo", got.BandHeight)
	}
}

func TestHeaderResolveUnknownTemplate(t *testing.T) {
	isolate(t)
	if _, err := run(t, "header", "resolve", "--template", "nope"); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestHeaderTiers(t *testing.T) {
	isolate(t)
	out, err := run(t, "header", "tiers")
	if err != nil {
		t.Fatalf("header tiers: %v", err)
	}
	for _, want := range []string{"small", "24px", "xlarge", "60px"} {
		if !strings.Contains(out, want) {
			t.Errorf("tiers output missing %q:\n%s", want, out)
		}
	}
}

func TestTemplatesCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	for _, want := range []string{"modern-grid", "elegant-cards", "premium"} {
		if !strings.Contains(out, want) {
			t.Errorf("templates output missing %q", want)
		}
	}
}

func TestRenderCatalogFile(t *testing.T) {
	isolate(t)
	input := copyCatalog(t)

	if _, err := run(t, "render", input, "-f", "html,json", "--no-embed-logo", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	base := strings.TrimSuffix(input, ".yaml")
	html, err := os.ReadFile(base + ".html")
	if err != nil {
		t.Fatalf("html not written: %v", err)
	}
	if !bytes.Contains(html, []byte("Sonbahar")) {
		t.Error("html missing catalog name")
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("json not written: %v", err)
	}
	var doc struct {
		Surface string       `json:"surface"`
		Frame   render.Frame `json:"frame"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if doc.Surface != string(render.SurfaceExport) {
		t.Errorf("surface = %q, want export", doc.Surface)
	}
	if doc.Frame.Header.LogoHeight != 60 {
		t.Errorf("logo height = %d, want 60", doc.Frame.Header.LogoHeight)
	}
	if doc.Frame.Header.Layout.TitleAnchor != header.AnchorRight {
		t.Errorf("title anchor = %s, want right", doc.Frame.Header.Layout.TitleAnchor)
	}
}

func TestRenderOutputPath(t *testing.T) {
	isolate(t)
	input := copyCatalog(t)
	out := filepath.Join(t.TempDir(), "nested", "catalog.json")

	if _, err := run(t, "render", input, "-f", "json", "-s", "public", "-o", out, "--no-embed-logo", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	input := copyCatalog(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", input, "-f", "svg"}},
		{"unknown surface", []string{"render", input, "-s", "print"}},
		{"scale too large", []string{"render", input, "--scale", "9"}},
		{"missing stored catalog", []string{"render", "no-such-catalog", "--no-cache"}},
		{"conflicting logo flags", []string{"render", input, "--embed-logo", "--no-embed-logo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParityCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "parity", copyCatalog(t), "--json")
	if err != nil {
		t.Fatalf("parity: %v", err)
	}
	var report render.ParityReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !report.Equal {
		t.Errorf("surfaces diverge: %s", report.Divergence)
	}
	if len(report.Frames) != len(render.Surfaces()) {
		t.Errorf("frames = %d, want %d", len(report.Frames), len(render.Surfaces()))
	}
}

func TestImportThenRenderFromStore(t *testing.T) {
	isolate(t)
	db := filepath.Join(t.TempDir(), "vitrin.db")
	cfg := writeConfig(t, "[store]\ndriver = \"sqlite\"\ndsn = \""+db+"\"\n\n[cache]\ndriver = \"none\"\n")

	if _, err := run(t, "--config", cfg, "import", copyCatalog(t), "--publish"); err != nil {
		t.Fatalf("import: %v", err)
	}

	out := filepath.Join(t.TempDir(), "stored")
	if _, err := run(t, "--config", cfg, "render", "sonbahar-seckisi", "-f", "json", "-o", out, "--no-embed-logo"); err != nil {
		t.Fatalf("render stored catalog: %v", err)
	}
	if _, err := os.Stat(out + ".json"); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestImportDryRunRejectsInvalid(t *testing.T) {
	isolate(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	body := `{"name": "Bozuk", "layout": "modern-grid", "logo_size": "jumbo", "products": []}`
	if err := os.WriteFile(bad, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "import", "--dry-run", bad); err == nil {
		t.Error("expected validation error for unknown logo size")
	}
	if _, err := run(t, "import", "--dry-run", copyCatalog(t)); err != nil {
		t.Errorf("valid catalog rejected: %v", err)
	}
}

func TestApplyServeFlags(t *testing.T) {
	cfg := &config.Config{}
	cfg.Defaults()
	cfg.Store.Driver = "postgres"

	applyServeFlags(cfg, serveOpts{addr: ":7000", storeDSN: "vitrin.db"})

	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.DSN != "vitrin.db" || cfg.Store.Driver != "" {
		t.Errorf("store = %+v, want dsn set and driver inferred", cfg.Store)
	}
	if describeStore(cfg.Store) != "sqlite" {
		t.Errorf("describeStore() = %q, want sqlite", describeStore(cfg.Store))
	}
}
