package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cinder/internal/ast"
	"cinder/internal/backend/llvm"
	"cinder/internal/diag"
	"cinder/internal/ir"
	"cinder/internal/ir/lower"
	"cinder/internal/project"
	"cinder/internal/source"
)

// CompileOptions configure one build.
type CompileOptions struct {
	// Root is the project root (the directory holding cinder.toml).
	Root     string
	Manifest *project.Manifest

	Jobs           int
	MaxDiagnostics int

	// Cache, when non-nil, lets unchanged projects skip the whole pipeline.
	Cache *DiskCache

	// Observer receives stage boundaries for progress reporting.
	Observer StageObserver

	// WriteOutput controls whether the .ll file is written to disk.
	WriteOutput bool
}

// CompileResult is the outcome of a build.
type CompileResult struct {
	// Output is the emitted LLVM module text, empty when errors stopped the
	// pipeline before codegen.
	Output     string
	OutputPath string

	Bag     *diag.Bag
	FileSet *source.FileSet

	// Cached reports that Output came from the disk cache.
	Cached bool
}

// HasErrors reports whether any stage produced an error diagnostic.
func (r *CompileResult) HasErrors() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// Compile runs the full pipeline for one project: parse all sources in
// parallel, lower them into a single IR context, validate, and emit LLVM
// text. Lowering is sequential because every file feeds one shared type
// interner and arena set.
func Compile(ctx context.Context, opts CompileOptions) (*CompileResult, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	m := opts.Manifest
	if m == nil {
		return nil, fmt.Errorf("driver: no manifest")
	}
	entryDir := filepath.Join(opts.Root, m.Build.Entry)
	outputPath := filepath.Join(opts.Root, m.Build.Output)

	res := &CompileResult{
		OutputPath: outputPath,
		Bag:        diag.NewBag(opts.MaxDiagnostics),
	}

	done := opts.Observer.begin("parse")
	fileSet, parsed, err := ParseDir(ctx, entryDir, opts.MaxDiagnostics, opts.Jobs)
	done()
	if err != nil {
		return nil, err
	}
	res.FileSet = fileSet
	if len(parsed) == 0 {
		return nil, fmt.Errorf("driver: no %s files under %s", SourceExt, entryDir)
	}

	files := make([]*ast.File, 0, len(parsed))
	hashes := make(map[string]project.Digest, len(parsed))
	for _, p := range parsed {
		res.Bag.Merge(p.Bag)
		if p.File != nil {
			files = append(files, p.File)
			hashes[p.Path] = project.Digest(fileSet.Get(p.FileID).Hash)
		}
	}
	res.Bag.Sort()
	if res.Bag.HasErrors() {
		return res, nil
	}

	digest := project.HashFiles(hashes)
	if opts.Cache != nil {
		var payload DiskPayload
		hit, err := opts.Cache.Get(digest, &payload)
		if err == nil && hit {
			res.Output = payload.Output
			res.Cached = true
			return res, finishOutput(res, opts)
		}
		// A cache read error falls through to a clean build.
	}

	done = opts.Observer.begin("lower")
	irCtx := ir.NewContext()
	lo := lower.New(irCtx, diag.BagReporter{Bag: res.Bag})
	lo.LowerFiles(files)
	done()
	res.Bag.Sort()
	if res.Bag.HasErrors() {
		return res, nil
	}

	if err := ir.Validate(irCtx); err != nil {
		return res, fmt.Errorf("driver: internal error: %w", err)
	}

	done = opts.Observer.begin("emit")
	out, err := llvm.EmitModule(irCtx)
	done()
	if err != nil {
		return res, err
	}
	res.Output = out

	if opts.Cache != nil {
		paths := make([]string, 0, len(hashes))
		fileHashes := make([]project.Digest, 0, len(hashes))
		for _, p := range parsed {
			if d, ok := hashes[p.Path]; ok {
				paths = append(paths, p.Path)
				fileHashes = append(fileHashes, d)
			}
		}
		payload := &DiskPayload{
			SourceDigest: digest,
			FilePaths:    paths,
			FileHashes:   fileHashes,
			Output:       out,
		}
		// Cache write failures never fail the build.
		_ = opts.Cache.Put(digest, payload)
	}

	return res, finishOutput(res, opts)
}

func finishOutput(res *CompileResult, opts CompileOptions) error {
	if !opts.WriteOutput || res.Output == "" {
		return nil
	}
	if dir := filepath.Dir(res.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(res.OutputPath, []byte(res.Output), 0o644) // #nosec G306 -- build artifact
}
