package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"
	"pkt.systems/emspace"
)

// gen-golden rewrites the name.golden member following every name.md member
// of testdata/*.txtar with the current Format output. The archive comment is
// YAML applied on top of emspace.DefaultConfig.
func main() {
	root := "testdata"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	paths, err := filepath.Glob(filepath.Join(root, "*.txtar"))
	if err != nil {
		fatalf("glob %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no txtar archives found under %s", root)
	}
	for _, path := range paths {
		n, err := regenerate(path)
		if err != nil {
			fatalf("%s: %v", path, err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s (%d case(s))\n", path, n)
	}
}

func regenerate(path string) (int, error) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		return 0, err
	}
	cfg := emspace.DefaultConfig()
	if err := yaml.Unmarshal(ar.Comment, &cfg); err != nil {
		return 0, fmt.Errorf("config comment: %w", err)
	}
	var files []txtar.File
	cases := 0
	for _, f := range ar.Files {
		if strings.HasSuffix(f.Name, ".golden") {
			continue
		}
		files = append(files, f)
		if !strings.HasSuffix(f.Name, ".md") {
			continue
		}
		cases++
		files = append(files, txtar.File{
			Name: strings.TrimSuffix(f.Name, ".md") + ".golden",
			Data: []byte(emspace.Format(string(f.Data), cfg)),
		})
	}
	ar.Files = files
	if err := os.WriteFile(path, txtar.Format(ar), 0o644); err != nil {
		return 0, err
	}
	return cases, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
