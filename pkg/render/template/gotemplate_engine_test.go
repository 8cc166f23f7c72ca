package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-modelcard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-modelcard/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RenderDispatchesInlineSource(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.Render("{{ a }}-{{ b }}", map[string]any{"a": "x", "b": 2})
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if got != "x-2" {
		t.Fatalf("inline render = %q", got)
	}

	got, err = engine.Render("hello", struct {
		Name string `json:"name"`
	}{Name: "Grace"})
	if err != nil {
		t.Fatalf("render path: %v", err)
	}
	if got != "Hello, Grace!\n" {
		t.Fatalf("path render = %q", got)
	}
}

func TestGoTemplateEngine_DefaultFilters(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString("{{ text }}", map[string]any{"text": "<b>bold</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "&lt;b&gt;bold&lt;/b&gt;" {
		t.Fatalf("autoescape output = %q", got)
	}

	got, err = engine.RenderString("{{ text|sanitize }}", map[string]any{
		"text": `<a href="https://x.example" onclick="evil()">x</a><script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("render sanitize: %v", err)
	}
	if !strings.Contains(got, `href="https://x.example"`) {
		t.Fatalf("sanitize dropped the link: %q", got)
	}
	if strings.Contains(got, "onclick") || strings.Contains(got, "script") {
		t.Fatalf("sanitize kept unsafe markup: %q", got)
	}

	got, err = engine.RenderString("{{ text|mdcell }}", map[string]any{"text": " a|b\nc "})
	if err != nil {
		t.Fatalf("render mdcell: %v", err)
	}
	if got != `a\|b c` {
		t.Fatalf("mdcell output = %q", got)
	}

	got, err = engine.RenderString("[{{ text|trim }}]", map[string]any{"text": "  padded  "})
	if err != nil {
		t.Fatalf("render trim: %v", err)
	}
	if got != "[padded]" {
		t.Fatalf("trim output = %q", got)
	}
}

func TestGoTemplateEngine_HasTemplate(t *testing.T) {
	engine := newEngine(t)
	if !engine.HasTemplate("hello") {
		t.Fatalf("expected hello template to resolve")
	}
	if engine.HasTemplate("missing") {
		t.Fatalf("expected missing template to be reported absent")
	}
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error rendering a missing template")
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template sources")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
