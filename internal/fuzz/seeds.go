package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // clamp for the corpus

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addLanguageSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".cn" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addLanguageSeeds(f *testing.F) {
	seeds := []string{
		"",
		"fun main() -> i32 { return 0; }\n",
		"extern fun putchar(c: i32) -> i32;\n",
		"struct Point { x: i32, y: i32 }\n",
		"type Byte = u8;\n",
		"fun f(p: *u8, n: i32) -> *u8 { return p + n; }\n",
		"fun g(a: bool) -> i32 { if a { return 1; } return 0; }\n",
		"fun loop(n: i32) { let i: i32 = 0; while i < n { i = i + 1; } }\n",
		"fun cast(x: f64) -> i32 { return x as i32; }\n",
		"fun deref(p: *i32) -> i32 { return *p; }\n",
		"fun bad( {",
		"fun unterminated() { let x: i32 = ;",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
