// Command writeaudit scans internal/services and reports service methods that
// write lesson order or completion rows without going through their aggregate.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	strict := flag.Bool("strict", false, "exit 1 when violations are found")
	flag.Parse()

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	r, err := run(root)
	if err != nil {
		exitf("%v", err)
	}
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		exitf("marshal report: %v", err)
	}
	fmt.Println(string(out))
	if *strict && len(r.Violations) > 0 {
		os.Exit(1)
	}
}

func run(root string) (*report, error) {
	servicesDir := filepath.Join(root, "internal", "services")
	fset := token.NewFileSet()

	entries, err := os.ReadDir(servicesDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", servicesDir, err)
	}
	files := map[string]*ast.File{}
	for _, e := range entries {
		if !isSource(e) {
			continue
		}
		path := filepath.Join(servicesDir, e.Name())
		f, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		files[path] = f
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no services sources in %s", servicesDir)
	}

	fields := map[string]structFields{}
	for _, f := range files {
		collectStructFields(f, fields)
	}
	r := &report{}
	for path, f := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		auditFile(fset, f, rel, fields, r)
	}
	finish(fields, r)
	return r, nil
}

func isSource(e fs.DirEntry) bool {
	name := e.Name()
	return !e.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
