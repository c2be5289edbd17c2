package main

import (
	"flag"
	"io"
	"os"
	"strings"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("refine", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags(newFlagSet(), []string{"-original", "a.jpg", "-processed", "b.png", "-output", "out.png", "-frame-width", "640"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.original != "a.jpg" || o.processed != "b.png" || o.output != "out.png" {
		t.Errorf("parseFlags() = %+v", o)
	}
	if o.frameWidth != 640 || o.frameHeight != 800 {
		t.Errorf("frame size = %dx%d, want 640x800", o.frameWidth, o.frameHeight)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing processed", []string{"-original", "a.jpg"}},
		{"unknown flag", []string{"-original", "a.jpg", "-processed", "b.png", "-out", "x.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(newFlagSet(), tt.args); err == nil {
				t.Errorf("parseFlags(%q) succeeded, want error", tt.args)
			}
		})
	}
}

// The usage line in the package documentation must parse.
func TestDocUsageParses(t *testing.T) {
	src, err := os.ReadFile("main.go")
	if err != nil {
		t.Fatal(err)
	}
	var usage string
	for _, line := range strings.Split(string(src), "\n") {
		if strings.HasPrefix(line, "//\trefine -") {
			usage = strings.TrimPrefix(line, "//\trefine ")
			break
		}
	}
	if usage == "" {
		t.Fatal("no usage line in package documentation")
	}
	if _, err := parseFlags(newFlagSet(), strings.Fields(usage)); err != nil {
		t.Errorf("parseFlags(%q) = %v", usage, err)
	}
}
