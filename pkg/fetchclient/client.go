// Package fetchclient downloads every file listed in a batch config, resuming
// partial files with Range requests.
package fetchclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yourname/fileshare_lite/internal/pathutil"
	"github.com/yourname/fileshare_lite/pkg/batchconf"
)

type Options struct {
	// Dir receives the downloaded tree.
	Dir string
	// Parallel overrides the config's parallel-max when positive.
	Parallel int
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
	// HTTPClient defaults to a client without timeout (transfers can be long).
	HTTPClient *http.Client
}

// Result summarises a batch.
type Result struct {
	Files   int
	Skipped int
	Resumed int
	Bytes   int64
}

type Client interface {
	// FetchConfig скачивает и разбирает batch-конфиг.
	FetchConfig(ctx context.Context, configURL string) (batchconf.Document, error)
	// Download скачивает все записи конфига в Options.Dir.
	Download(ctx context.Context, doc batchconf.Document) (Result, error)
}

type httpClient struct {
	c    *http.Client
	opts Options
}

// New создаёт клиент с заданными опциями.
func New(opts Options) Client {
	c := opts.HTTPClient
	if c == nil {
		c = &http.Client{}
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &httpClient{c: c, opts: opts}
}

func (h *httpClient) FetchConfig(ctx context.Context, configURL string) (batchconf.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, configURL, nil)
	if err != nil {
		return batchconf.Document{}, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return batchconf.Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return batchconf.Document{}, fmt.Errorf("config GET failed: %s", resp.Status)
	}

	return batchconf.Parse(resp.Body)
}

func (h *httpClient) Download(ctx context.Context, doc batchconf.Document) (Result, error) {
	parallel := h.opts.Parallel
	if parallel <= 0 {
		parallel = doc.Parallel
	}
	if parallel <= 0 {
		parallel = 1
	}

	bar := newProgressBar(h.opts.Progress, fmt.Sprintf("%d files", len(doc.Entries)))
	bar.render(true)

	var files, skipped, resumed, total atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, e := range doc.Entries {
		e := e
		g.Go(func() error {
			st, err := h.fetchOne(gctx, e, bar)
			if err != nil {
				bar.Logf("✗ %s: %v", e.Output, err)
				return fmt.Errorf("%s: %w", e.Output, err)
			}
			files.Add(1)
			total.Add(st.written)
			switch {
			case st.complete:
				skipped.Add(1)
				bar.Logf("= %s (already complete)", e.Output)
			case st.resumed:
				resumed.Add(1)
				bar.Logf("✓ %s (resumed)", e.Output)
			default:
				bar.Logf("✓ %s", e.Output)
			}
			return nil
		})
	}

	err := g.Wait()
	res := Result{
		Files:   int(files.Load()),
		Skipped: int(skipped.Load()),
		Resumed: int(resumed.Load()),
		Bytes:   total.Load(),
	}
	if err != nil {
		bar.Fail(err)
		return res, err
	}
	bar.Finish()
	return res, nil
}

type fetchState struct {
	written  int64
	resumed  bool
	complete bool
}

// fetchOne скачивает одну запись, дописывая файл, если он уже частично есть.
func (h *httpClient) fetchOne(ctx context.Context, e batchconf.Entry, bar *progressBar) (fetchState, error) {
	rel := pathutil.Sanitize(e.Output)
	if rel == "" {
		return fetchState{}, errors.New("empty output path")
	}
	dst := filepath.Join(h.opts.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fetchState{}, err
	}

	var have int64
	if info, err := os.Stat(dst); err == nil && info.Mode().IsRegular() {
		have = info.Size()
	}

	if have > 0 {
		size, err := h.remoteSize(ctx, e.URL)
		if err != nil {
			return fetchState{}, err
		}
		switch {
		case size == have:
			return fetchState{complete: true}, nil
		case size < have:
			have = 0
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return fetchState{}, err
	}
	if have > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(have, 10)+"-")
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return fetchState{}, err
	}
	defer resp.Body.Close()

	var (
		f     *os.File
		state fetchState
	)
	switch resp.StatusCode {
	case http.StatusPartialContent:
		f, err = os.OpenFile(dst, os.O_WRONLY|os.O_APPEND, 0o644)
		state.resumed = true
	case http.StatusOK:
		f, err = os.Create(dst)
	default:
		return fetchState{}, fmt.Errorf("GET failed: %s", resp.Status)
	}
	if err != nil {
		return fetchState{}, err
	}
	defer f.Close()

	if resp.ContentLength > 0 {
		bar.AddTotal(resp.ContentLength)
	}

	state.written, err = io.Copy(f, io.TeeReader(resp.Body, progressWriter{bar: bar}))
	if err != nil {
		return state, err
	}
	if resp.ContentLength >= 0 && state.written != resp.ContentLength {
		return state, fmt.Errorf("short body: want %d bytes, got %d", resp.ContentLength, state.written)
	}

	return state, f.Close()
}

func (h *httpClient) remoteSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HEAD failed: %s", resp.Status)
	}
	if resp.ContentLength < 0 {
		return 0, errors.New("HEAD response has no Content-Length")
	}
	return resp.ContentLength, nil
}
