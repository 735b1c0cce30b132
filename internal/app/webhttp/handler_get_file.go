package webhttp

import (
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yourname/fileshare_lite/internal/logging"
	"github.com/yourname/fileshare_lite/internal/metrics"
	"github.com/yourname/fileshare_lite/internal/pathutil"
	"github.com/yourname/fileshare_lite/pkg/httperrors"
)

// getFile отдаёт файл или листинг каталога по пути после /files/.
// The decoded URL path is used rather than a chi param so escaped names
// resolve exactly once.
func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	rel := pathutil.Sanitize(strings.TrimPrefix(r.URL.Path, "/files"))

	info, err := s.Files.Stat(r.Context(), rel)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	if info.IsDir() {
		s.renderListing(w, r, rel)
		return
	}
	s.streamFile(w, r, rel)
}

// streamFile копирует файл (или диапазон) в ответ, не буферизуя его целиком.
func (s *Server) streamFile(w http.ResponseWriter, r *http.Request, rel string) {
	log := logging.WithContext(r.Context())

	d, err := s.Files.Open(r.Context(), rel, r.Header.Get("Range"))
	if err != nil {
		log.Warn("open file failed", zap.String("file", rel), zap.Error(err))
		httperrors.Write(w, err)
		return
	}
	defer d.Body.Close()

	h := w.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Type", d.ContentType)
	h.Set("Content-Disposition", contentDisposition(d.Name))
	h.Set("Content-Length", strconv.FormatInt(d.Length(), 10))

	status := http.StatusOK
	if d.Partial() {
		h.Set("Content-Range", d.Range.ContentRange(d.Size))
		status = http.StatusPartialContent
		log.Info("file download (partial)",
			zap.String("client", clientIP(r)),
			zap.String("file", d.Path),
			zap.String("range", d.Range.String()),
		)
	} else {
		log.Info("file download (full)",
			zap.String("client", clientIP(r)),
			zap.String("file", d.Path),
			zap.Int64("size", d.Size),
		)
	}

	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}

	n, err := io.Copy(w, d.Body)
	if err != nil {
		log.Warn("content transfer interrupted",
			zap.String("file", d.Path),
			zap.Int64("sent", n),
			zap.Error(err),
		)
	}
	metrics.RecordDownload(n, d.Partial(), err == nil)
}

// contentDisposition quotes name for the header and adds an RFC 5987 form
// when it is not plain ASCII.
func contentDisposition(name string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name)
	v := `attachment; filename="` + quoted + `"`
	for i := 0; i < len(name); i++ {
		if name[i] >= 0x80 {
			return v + "; filename*=UTF-8''" + url.PathEscape(name)
		}
	}
	return v
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
