package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryWriter_WriteFile(t *testing.T) {
	w := &MemoryWriter{}

	t.Run("write and retrieve", func(t *testing.T) {
		if err := w.WriteFile("src/index.ts", []byte("export const pgErrors = {};")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		data, ok := w.GetFile("src/index.ts")
		if !ok {
			t.Fatal("GetFile() returned false")
		}
		if string(data) != "export const pgErrors = {};" {
			t.Errorf("GetFile() = %q", string(data))
		}
	})

	t.Run("overwrite existing", func(t *testing.T) {
		_ = w.WriteFile("src/index.ts", []byte("first"))
		_ = w.WriteFile("src/index.ts", []byte("second"))

		data, _ := w.GetFile("src/index.ts")
		if string(data) != "second" {
			t.Error("expected file to be overwritten")
		}
	})

	t.Run("data is copied", func(t *testing.T) {
		buf := []byte("original")
		_ = w.WriteFile("copy.ts", buf)
		buf[0] = 'X'

		data, _ := w.GetFile("copy.ts")
		if string(data) != "original" {
			t.Errorf("GetFile() = %q, want original", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, ok := w.GetFile("missing.ts"); ok {
			t.Error("GetFile() returned true for missing file")
		}
	})
}

func TestMemoryWriter_Err(t *testing.T) {
	boom := errors.New("disk full")
	w := &MemoryWriter{Err: boom}

	if err := w.WriteFile("a.ts", nil); !errors.Is(err, boom) {
		t.Fatalf("WriteFile() error = %v, want %v", err, boom)
	}
	if len(w.Paths()) != 0 {
		t.Fatalf("Paths() = %v after failed write", w.Paths())
	}
}

func TestMemoryWriter_Concurrent(t *testing.T) {
	w := &MemoryWriter{}
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = w.WriteFile(fmt.Sprintf("file%d.ts", n), []byte("content"))
		}(i)
	}
	wg.Wait()

	want := []string{"file0.ts", "file1.ts", "file2.ts", "file3.ts", "file4.ts", "file5.ts", "file6.ts", "file7.ts", "file8.ts", "file9.ts"}
	if diff := cmp.Diff(want, w.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}
}
