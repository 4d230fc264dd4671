package hostbridge

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/shellkit/pkg/render"
	"github.com/vango-dev/shellkit/pkg/routes"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

// pageMeta collects what the shell publishes through its Host sinks.
type pageMeta struct {
	title       string
	breadcrumbs []routes.Breadcrumb
}

func (m *pageMeta) host() routes.Host {
	return routes.Host{
		SetPageTitle:   func(title string) { m.title = title },
		SetBreadcrumbs: func(items []routes.Breadcrumb) { m.breadcrumbs = items },
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	clean, changed, err := cleanNavPath(r.URL.EscapedPath())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if changed {
		if r.URL.RawQuery != "" {
			clean += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, clean, http.StatusMovedPermanently)
		return
	}

	var meta pageMeta
	shell := s.newShell(meta.host(), middleware.GetReqID(r.Context()))
	defer shell.Close()

	nav := shell.NavigateContext(r.Context(), r.URL.Path)
	if nav.Redirected && !nav.NotFound {
		target := nav.Location
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.ResolveTimeout)
	defer cancel()
	if err := shell.Resolve(ctx); err != nil {
		s.logger.Warn("lazy content still pending at render",
			"path", nav.Location,
			"error", err)
	}

	body := Chrome(meta.breadcrumbs, shell.Render(ctx))

	var buf bytes.Buffer
	err = s.renderer.RenderPage(&buf, render.PageData{
		Body:         body,
		Title:        meta.title,
		Lang:         s.config.Lang,
		StyleSheets:  s.config.StyleSheets,
		InlineScript: liveScript,
	})
	if err != nil {
		s.logger.Error("render failed", "path", nav.Location, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if nav.NotFound {
		w.WriteHeader(http.StatusNotFound)
	}
	_, _ = w.Write(buf.Bytes())
}

// Chrome wraps shell content in the page frame: the breadcrumb trail and
// the container the live channel replaces.
func Chrome(crumbs []routes.Breadcrumb, content *vdom.VNode) *vdom.VNode {
	return vdom.Fragment(
		BreadcrumbNav(crumbs),
		vdom.Main(vdom.ID("shell-root"), content),
	)
}

// BreadcrumbNav renders a breadcrumb trail. The last item is the current
// page.
func BreadcrumbNav(crumbs []routes.Breadcrumb) *vdom.VNode {
	items := vdom.Range(crumbs, func(c routes.Breadcrumb, i int) *vdom.VNode {
		if i == len(crumbs)-1 {
			return vdom.Li(vdom.Span(vdom.AriaCurrent("page"), vdom.Text(c.Label)))
		}
		return vdom.Li(vdom.A(vdom.Href(c.URL), vdom.Text(c.Label)))
	})
	return vdom.Nav(
		vdom.ID("shell-breadcrumbs"),
		vdom.AriaLabel("Breadcrumb"),
		vdom.Ol(items),
	)
}

// liveScript connects the page to the live channel: link clicks and
// history navigation are sent as navigate messages and the server's
// replies update the title, breadcrumbs and content in place.
const liveScript = `(function(){
var proto = location.protocol === "https:" ? "wss:" : "ws:";
var ws = new WebSocket(proto + "//" + location.host + "/_shell/ws?path=" + encodeURIComponent(location.pathname));
function go(path, push){ ws.send(JSON.stringify({type:"navigate", path:path})); if(push){ history.pushState({}, "", path); } }
document.addEventListener("click", function(e){
  var a = e.target.closest && e.target.closest("a[href^='/']");
  if(!a || e.metaKey || e.ctrlKey || ws.readyState !== 1){ return; }
  e.preventDefault(); go(a.getAttribute("href"), true);
});
window.addEventListener("popstate", function(){ go(location.pathname, false); });
ws.onmessage = function(ev){
  var m = JSON.parse(ev.data);
  if(m.type === "title"){ document.title = m.title; }
  if(m.type === "html"){
    document.getElementById("shell-root").innerHTML = m.html;
    if(m.location && m.location !== location.pathname){ history.replaceState({}, "", m.location); }
  }
  if(m.type === "breadcrumbs"){
    var nav = document.getElementById("shell-breadcrumbs");
    var ol = document.createElement("ol");
    m.breadcrumbs.forEach(function(c, i){
      var li = document.createElement("li");
      var el = document.createElement(i === m.breadcrumbs.length - 1 ? "span" : "a");
      if(el.tagName === "A"){ el.href = c.url; } else { el.setAttribute("aria-current", "page"); }
      el.textContent = c.label; li.appendChild(el); ol.appendChild(li);
    });
    nav.replaceChildren(ol);
  }
};
})();`
