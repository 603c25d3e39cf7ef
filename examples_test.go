// examples_test.go — golden runner for the programs under examples/.
//
// testdata/examples.yaml lists each program with the canonical rendering of
// every statement result. Adding an example means adding a file and a
// manifest entry, not a new test function.
package am

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

type exampleManifest struct {
	Examples []exampleCase `yaml:"examples"`
}

type exampleCase struct {
	File    string   `yaml:"file"`
	Results []string `yaml:"results"`
	Error   string   `yaml:"error"`
}

func loadManifest(t *testing.T) exampleManifest {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "examples.yaml"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	var m exampleManifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decoding manifest: %v", err)
	}
	if len(m.Examples) == 0 {
		t.Fatal("manifest lists no examples")
	}
	return m
}

func Test_Examples_Golden(t *testing.T) {
	for _, ex := range loadManifest(t).Examples {
		ex := ex
		t.Run(ex.File, func(t *testing.T) {
			raw, err := os.ReadFile(filepath.Join("examples", ex.File))
			if err != nil {
				t.Fatalf("reading example: %v", err)
			}
			src := string(raw)

			vals, err := NewInterp().RunSource(src)
			if ex.Error == "" && err != nil {
				t.Fatalf("run error: %v", WrapErrorWithSource(err, src))
			}
			if ex.Error != "" {
				re, ok := err.(*RuntimeError)
				if !ok {
					t.Fatalf("want RuntimeError %q, got %v", ex.Error, err)
				}
				if re.Kind.String() != ex.Error {
					t.Fatalf("want error kind %q, got %q", ex.Error, re.Kind)
				}
			}

			if len(vals) != len(ex.Results) {
				t.Fatalf("want %d results, got %d", len(ex.Results), len(vals))
			}
			for i, want := range ex.Results {
				if got := Render(vals[i]); got != want {
					t.Errorf("statement %d: want %q, got %q", i+1, want, got)
				}
			}
		})
	}
}
