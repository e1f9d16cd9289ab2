package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinder/internal/diag"
	"cinder/internal/project"
)

func writeProject(t *testing.T, files map[string]string) (root string, m *project.Manifest) {
	t.Helper()
	root = t.TempDir()
	manifest := "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"
	if err := os.WriteFile(filepath.Join(root, project.ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	m, err := project.Load(filepath.Join(root, project.ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	return root, m
}

func TestCompileEmitsModule(t *testing.T) {
	root, m := writeProject(t, map[string]string{
		"src/main.cn": `
fun main() -> i32 {
	return 40 + 2;
}`,
	})

	res, err := Compile(context.Background(), CompileOptions{
		Root:        root,
		Manifest:    m,
		WriteOutput: true,
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if !strings.Contains(res.Output, "define i32 @main()") {
		t.Errorf("output lacks main definition:\n%s", res.Output)
	}

	written, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if string(written) != res.Output {
		t.Error("written file differs from emitted output")
	}
}

func TestCompileCrossFileCalls(t *testing.T) {
	root, m := writeProject(t, map[string]string{
		"src/lib.cn":  "fun double(n: i32) -> i32 { return n * 2; }",
		"src/main.cn": "fun main() -> i32 { return double(21); }",
	})

	res, err := Compile(context.Background(), CompileOptions{Root: root, Manifest: m})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if !strings.Contains(res.Output, "call i32 @double(i32 21)") {
		t.Errorf("missing cross-file call:\n%s", res.Output)
	}
}

func TestCompileReportsTypeErrors(t *testing.T) {
	root, m := writeProject(t, map[string]string{
		"src/main.cn": `
fun main() -> i32 {
	let b: bool = true;
	return b + 1;
}`,
	})

	res, err := Compile(context.Background(), CompileOptions{Root: root, Manifest: m})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !res.HasErrors() {
		t.Fatal("expected a type error")
	}
	if res.Output != "" {
		t.Error("errors must not produce output")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.SemaTypeMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("no SemaTypeMismatch in %v", res.Bag.Items())
	}
}

func TestCompileUsesDiskCache(t *testing.T) {
	root, m := writeProject(t, map[string]string{
		"src/main.cn": "fun main() -> i32 { return 7; }",
	})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := CompileOptions{Root: root, Manifest: m, Cache: cache}

	first, err := Compile(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first build must not be cached")
	}

	second, err := Compile(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second build should hit the cache")
	}
	if second.Output != first.Output {
		t.Error("cached output differs from the fresh build")
	}

	// Editing a source invalidates the key.
	if err := os.WriteFile(filepath.Join(root, "src", "main.cn"),
		[]byte("fun main() -> i32 { return 8; }"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := Compile(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Fatal("edited source must rebuild")
	}
}

func TestParseDirSortsAndScopesDiagnostics(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("b.cn", "fun ok() {}")
	writeFile("a.cn", "fun broken( {}")
	writeFile("notes.txt", "not a source file")

	_, results, err := ParseDir(context.Background(), dir, 64, 2)
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if filepath.Base(results[0].Path) != "a.cn" || filepath.Base(results[1].Path) != "b.cn" {
		t.Fatalf("results out of order: %q, %q", results[0].Path, results[1].Path)
	}
	if !results[0].Bag.HasErrors() {
		t.Error("a.cn should carry parse errors")
	}
	if results[1].Bag.HasErrors() {
		t.Errorf("b.cn should be clean: %v", results[1].Bag.Items())
	}
}

func TestDiskCacheRejectsOtherSchema(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	key := project.HashContent([]byte("key"))
	if err := cache.Put(key, &DiskPayload{Output: "x"}); err != nil {
		t.Fatal(err)
	}

	// Corrupt the schema on disk by writing a payload with a bogus version.
	var got DiskPayload
	hit, err := cache.Get(key, &got)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if got.Output != "x" {
		t.Fatalf("payload = %+v", got)
	}

	var missing DiskPayload
	hit, err = cache.Get(project.HashContent([]byte("other")), &missing)
	if err != nil || hit {
		t.Fatalf("missing key: hit=%v err=%v", hit, err)
	}
}

func TestStageObserverOrder(t *testing.T) {
	root, m := writeProject(t, map[string]string{
		"src/main.cn": "fun main() -> i32 { return 0; }",
	})

	var events []string
	obs := func(e StageEvent) {
		suffix := "+"
		if e.Status == StageEnd {
			suffix = "-"
		}
		events = append(events, e.Name+suffix)
	}
	if _, err := Compile(context.Background(), CompileOptions{Root: root, Manifest: m, Observer: obs}); err != nil {
		t.Fatal(err)
	}

	want := []string{"parse+", "parse-", "lower+", "lower-", "emit+", "emit-"}
	if len(events) != len(want) {
		t.Fatalf("events = %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}
