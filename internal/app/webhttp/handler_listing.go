package webhttp

import (
	"html/template"
	"net/http"
	"net/url"
	"path"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/yourname/fileshare_lite/internal/logging"
	"github.com/yourname/fileshare_lite/pkg/httperrors"
)

type listingRow struct {
	Name  string
	Href  string
	Rel   string
	IsDir bool
	Size  string
}

type listingPage struct {
	Path       string
	ParentHref string
	IsRoot     bool
	Rows       []listingRow
}

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>/{{.Path}}</title></head>
<body>
<h1>Directory listing: /{{.Path}}</h1>
<ul>
{{- if not .IsRoot}}
<li><a href="{{.ParentHref}}">[..]</a></li>
{{- end}}
{{- range .Rows}}
<li><input type="checkbox" data-kind="{{if .IsDir}}dirs{{else}}files{{end}}" value="{{.Rel}}">
{{if .IsDir}}&#128193;{{else}}&#128196;{{end}} <a href="{{.Href}}">{{.Name}}</a>{{if not .IsDir}} ({{.Size}}){{end}}</li>
{{- end}}
</ul>
<button id="register">Download selected</button>
<p id="result"></p>
<script>
document.getElementById("register").onclick = async function () {
  const body = {files: [], dirs: []};
  document.querySelectorAll("input[type=checkbox]:checked").forEach(function (c) {
    body[c.dataset.kind].push(c.value);
  });
  const resp = await fetch("/register-selection", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body)
  });
  const out = document.getElementById("result");
  if (!resp.ok) { out.textContent = "registration failed: " + resp.status; return; }
  const sel = await resp.json();
  const a = document.createElement("a");
  a.href = "/config/" + sel.id;
  a.textContent = "batch config " + sel.id;
  out.replaceChildren(a);
};
</script>
</body>
</html>
`))

// renderListing рисует HTML-листинг каталога rel.
func (s *Server) renderListing(w http.ResponseWriter, r *http.Request, rel string) {
	entries, err := s.Files.List(r.Context(), rel)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	page := listingPage{
		Path:       rel,
		ParentHref: fileHref(""),
		IsRoot:     rel == "",
		Rows:       make([]listingRow, 0, len(entries)),
	}
	if parent := path.Dir(rel); parent != "." {
		page.ParentHref = fileHref(parent)
	}

	for _, e := range entries {
		page.Rows = append(page.Rows, listingRow{
			Name:  e.Name,
			Href:  fileHref(e.RelPath),
			Rel:   e.RelPath,
			IsDir: e.IsDir,
			Size:  humanize.IBytes(uint64(e.Size)),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listingTmpl.Execute(w, page); err != nil {
		logging.WithContext(r.Context()).Warn("render listing", zap.String("dir", rel), zap.Error(err))
	}
}

// fileHref percent-encodes rel so names containing '?', '#' or '%' link correctly.
func fileHref(rel string) string {
	return (&url.URL{Path: "/files/" + rel}).EscapedPath()
}
