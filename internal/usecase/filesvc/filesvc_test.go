package filesvc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/yourname/fileshare_lite/internal/models"
	"github.com/yourname/fileshare_lite/internal/repo"
	"github.com/yourname/fileshare_lite/pkg/batchconf"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func newService(t *testing.T, root string) *Files {
	t.Helper()
	cache, err := repo.NewSelectionCache(repo.DefaultCapacity, nil)
	if err != nil {
		t.Fatal(err)
	}
	return New(Deps{Root: root, Selections: cache, Parallel: 4})
}

func readAll(t *testing.T, d *models.Download) []byte {
	t.Helper()
	defer d.Body.Close()
	b, err := io.ReadAll(d.Body)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestOpen_FullAndRange(t *testing.T) {
	root := t.TempDir()
	payload := bytes.Repeat([]byte("0123456789"), 100)
	writeFile(t, root, "data/blob.txt", payload)
	svc := newService(t, root)
	ctx := context.Background()

	d, err := svc.Open(ctx, "data/blob.txt", "")
	if err != nil {
		t.Fatal(err)
	}
	if d.Partial() || d.Size != 1000 || d.Length() != 1000 {
		t.Fatalf("unexpected download %+v", d)
	}
	if !strings.HasPrefix(d.ContentType, "text/plain") {
		t.Fatalf("content type %q", d.ContentType)
	}
	if got := readAll(t, d); !bytes.Equal(got, payload) {
		t.Fatal("full body mismatch")
	}

	d, err = svc.Open(ctx, "data/blob.txt", "bytes=100-199")
	if err != nil {
		t.Fatal(err)
	}
	if !d.Partial() || d.Range.Start != 100 || d.Range.End != 199 || d.Length() != 100 {
		t.Fatalf("unexpected range %+v", d.Range)
	}
	if got := readAll(t, d); !bytes.Equal(got, payload[100:200]) {
		t.Fatal("range body mismatch")
	}

	// некорректный диапазон отдает файл целиком
	d, err = svc.Open(ctx, "data/blob.txt", "bytes=500-100")
	if err != nil {
		t.Fatal(err)
	}
	if d.Partial() || len(readAll(t, d)) != 1000 {
		t.Fatal("invalid range not served in full")
	}
}

func TestOpen_NotFound(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "share")
	writeFile(t, root, "dir/a.bin", []byte("a"))
	writeFile(t, parent, "secret", []byte("s"))
	svc := newService(t, root)

	for _, rel := range []string{"missing", "dir", "../secret", "../../secret", ""} {
		_, err := svc.Open(context.Background(), rel, "")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Open(%q) err = %v, want ErrNotFound", rel, err)
		}
	}
}

func TestOpen_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "single.zzz", []byte("only file"))
	svc := newService(t, filepath.Join(dir, "single.zzz"))

	d, err := svc.Open(context.Background(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "single.zzz" || d.ContentType != defaultContentType {
		t.Fatalf("download %+v", d)
	}
	if string(readAll(t, d)) != "only file" {
		t.Fatal("body mismatch")
	}
}

func TestRegister_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "single.zzz", []byte("only file"))
	svc := newService(t, filepath.Join(dir, "single.zzz"))
	ctx := context.Background()

	for _, req := range []models.RegisterRequest{
		{Files: []string{""}},
		{Dirs: []string{"/"}},
		{Files: []string{"single.zzz"}},
	} {
		sel, err := svc.Register(ctx, req)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(sel.Files, []string{"single.zzz"}) {
			t.Fatalf("%+v: files %v", req, sel.Files)
		}
	}

	sel, err := svc.Register(ctx, models.RegisterRequest{Files: []string{"other.txt"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(sel.Files) != 0 {
		t.Fatalf("unrelated file selected: %v", sel.Files)
	}

	d, err := svc.Open(ctx, "single.zzz", "bytes=0-3")
	if err != nil {
		t.Fatal(err)
	}
	if string(readAll(t, d)) != "only" {
		t.Fatal("root file not served by name")
	}
}

func TestList_DirsFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.txt", []byte("bb"))
	writeFile(t, root, "a.txt", []byte("a"))
	writeFile(t, root, "zdir/x", nil)
	writeFile(t, root, "adir/y", nil)
	svc := newService(t, root)

	entries, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if !slices.Equal(names, []string{"adir", "zdir", "a.txt", "b.txt"}) {
		t.Fatalf("order %v", names)
	}
	if entries[3].Size != 2 || entries[3].RelPath != "b.txt" {
		t.Fatalf("entry %+v", entries[3])
	}

	sub, err := svc.List(context.Background(), "/../zdir")
	if err != nil {
		t.Fatal(err)
	}
	if len(sub) != 1 || sub[0].RelPath != "zdir/x" {
		t.Fatalf("sub %+v", sub)
	}

	if _, err := svc.List(context.Background(), "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRegister_FilesAndDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "single.txt", []byte("1"))
	for _, n := range []string{"a", "b", "c"} {
		writeFile(t, root, "photos/"+n+".jpg", []byte(n))
	}
	writeFile(t, root, "photos/2024/d.jpg", []byte("d"))
	writeFile(t, root, "other/e.txt", []byte("e"))
	svc := newService(t, root)
	ctx := context.Background()

	req := models.RegisterRequest{
		Files: []string{"single.txt", "photos/a.jpg", "missing.txt", "other", ""},
		Dirs:  []string{"photos"},
	}
	sel, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"other/e.txt",
		"photos/2024/d.jpg",
		"photos/a.jpg",
		"photos/b.jpg",
		"photos/c.jpg",
		"single.txt",
	}
	if !slices.Equal(sel.Files, want) {
		t.Fatalf("files %v, want %v", sel.Files, want)
	}

	again, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID == sel.ID || !slices.Equal(again.Files, sel.Files) {
		t.Fatalf("re-register: %q vs %q, %v", again.ID, sel.ID, again.Files)
	}
}

func TestRegister_EmptyDirMeansRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x/y.txt", nil)
	writeFile(t, root, "z.txt", nil)
	svc := newService(t, root)

	sel, err := svc.Register(context.Background(), models.RegisterRequest{Dirs: []string{"../.."}})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(sel.Files, []string{"x/y.txt", "z.txt"}) {
		t.Fatalf("files %v", sel.Files)
	}
}

func TestConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, `we"ird,name.txt`, []byte("q"))
	writeFile(t, root, "plain.txt", []byte("p"))
	svc := newService(t, root)
	ctx := context.Background()

	sel, err := svc.Register(ctx, models.RegisterRequest{Files: []string{`we"ird,name.txt`, "plain.txt"}})
	if err != nil {
		t.Fatal(err)
	}

	body, err := svc.Config(ctx, sel.ID, "http://192.168.1.5:3000")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := batchconf.Parse(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Parallel != 4 || len(doc.Entries) != 2 {
		t.Fatalf("doc %+v", doc)
	}
	for i, f := range sel.Files {
		if doc.Entries[i].Output != f {
			t.Errorf("output %q, want %q", doc.Entries[i].Output, f)
		}
		if !strings.HasSuffix(doc.Entries[i].URL, "/files/"+f) {
			t.Errorf("url %q does not end with %q", doc.Entries[i].URL, f)
		}
	}

	if _, err := svc.Config(ctx, "unknown", "http://x"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
