package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_PATH", "FILESHARE_ROOT", "FILESHARE_PORT", "FILESHARE_PARALLEL",
		"FILESHARE_PUBLIC_URL", "FILESHARE_CACHE_CAPACITY", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if *c != Default() {
		t.Fatalf("got %+v, want defaults", *c)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "root: /srv/share\nport: 8080\nparallel: 4\ncache_capacity: 10\nlog_level: debug\nshutdown_timeout: 3s\nqr: false\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("FILESHARE_PORT", "9090")
	t.Setenv("FILESHARE_PARALLEL", "not-a-number")

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Root != "/srv/share" || c.Port != 9090 || c.Parallel != 4 || c.CacheCapacity != 10 {
		t.Fatalf("unexpected config %+v", *c)
	}
	if c.LogLevel != "debug" || c.ShutdownTimeout != 3*time.Second || c.QR {
		t.Fatalf("unexpected config %+v", *c)
	}
	if !c.Metrics {
		t.Fatal("metrics default lost")
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("port: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}

func TestResolve_CanonicalRoot(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	c := Default()
	c.Root = link
	c.PublicURL = " http://example.test:3000/ "
	if err := c.Resolve(); err != nil {
		t.Fatal(err)
	}

	want, _ := filepath.EvalSymlinks(real)
	if c.Root != want {
		t.Fatalf("root %q, want %q", c.Root, want)
	}
	if c.PublicURL != "http://example.test:3000" {
		t.Fatalf("public url %q", c.PublicURL)
	}
}

func TestResolve_EmptyRootIsWorkingDir(t *testing.T) {
	c := Default()
	if err := c.Resolve(); err != nil {
		t.Fatal(err)
	}
	wd, _ := os.Getwd()
	want, _ := filepath.EvalSymlinks(wd)
	if c.Root != want {
		t.Fatalf("root %q, want %q", c.Root, want)
	}
}

func TestResolve_Errors(t *testing.T) {
	root := t.TempDir()
	cases := map[string]func(*Config){
		"missing root": func(c *Config) { c.Root = filepath.Join(root, "nope") },
		"port":         func(c *Config) { c.Port = 70000 },
		"parallel":     func(c *Config) { c.Parallel = 0 },
		"capacity":     func(c *Config) { c.CacheCapacity = 0 },
	}
	for name, mutate := range cases {
		c := Default()
		c.Root = root
		mutate(&c)
		if err := c.Resolve(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestListenAddr(t *testing.T) {
	c := Default()
	if got := c.ListenAddr(); got != "0.0.0.0:3000" {
		t.Fatalf("addr %q", got)
	}
}
