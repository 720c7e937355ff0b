package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeInfo struct {
	fs.FileInfo
	mod  time.Time
	size int64
}

func (f fakeInfo) ModTime() time.Time { return f.mod }
func (f fakeInfo) Size() int64        { return f.size }

func TestFileWatcherPoll(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	info := fakeInfo{mod: base, size: 3}
	var statErr error
	reads := 0

	w := newFileWatcher("shader.wgsl", time.Millisecond)
	w.stat = func(string) (os.FileInfo, error) { return info, statErr }
	w.read = func(string) ([]byte, error) {
		reads++
		return []byte("abc"), nil
	}

	steps := []struct {
		name        string
		mutate      func()
		wantChanged bool
		wantErr     bool
	}{
		{"first poll reports the file", func() {}, true, false},
		{"unchanged file is skipped", func() {}, false, false},
		{"newer mtime is reported", func() { info.mod = base.Add(time.Second) }, true, false},
		{"size change with same mtime is reported", func() { info.size = 4 }, true, false},
		{"stat error is returned", func() { statErr = errors.New("gone") }, false, true},
		{"recovered file with same stat is skipped", func() { statErr = nil }, false, false},
	}

	for _, step := range steps {
		step.mutate()
		data, changed, err := w.poll()
		if (err != nil) != step.wantErr {
			t.Fatalf("%s: err = %v, wantErr %v", step.name, err, step.wantErr)
		}
		if changed != step.wantChanged {
			t.Fatalf("%s: changed = %v, want %v", step.name, changed, step.wantChanged)
		}
		if changed && string(data) != "abc" {
			t.Fatalf("%s: data = %q", step.name, data)
		}
	}
	if reads != 3 {
		t.Errorf("reads = %d, want 3", reads)
	}
}

func TestFileWatcherRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frag.wgsl")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		newFileWatcher(path, 5*time.Millisecond).run(ctx, func(data []byte) {
			got <- string(data)
		})
	}()

	select {
	case v := <-got:
		if v != "v1" {
			t.Fatalf("first contents = %q, want v1", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("initial contents not reported")
	}

	if err := os.WriteFile(path, []byte("version 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case v := <-got:
		if v != "version 2" {
			t.Fatalf("second contents = %q, want version 2", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change not reported")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestIsShaderPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a/b/frag.wgsl", true},
		{"FRAG.WGSL", true},
		{"image.png", false},
		{"wgsl", false},
	}
	for _, tt := range tests {
		if got := isShaderPath(tt.path); got != tt.want {
			t.Errorf("isShaderPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
