package page

import (
	"encoding/json"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// FragmentHeader set to FragmentServices asks the select endpoint for the
// re-rendered services section instead of a redirect
const (
	FragmentHeader   = "X-Fragment"
	FragmentServices = "services"
)

// LivePath is where the services live channel is served
const LivePath = "/ws/services"

// enhanceJS upgrades the card-select forms in place. Selections go over the
// live channel while it is open, otherwise through a fragment POST; if both
// fail the form is submitted normally.
const enhanceJS = `(function (cfg) {
  function swap(html) {
    var current = document.getElementById(cfg.section);
    if (current && html) { current.outerHTML = html; }
  }

  var socket = null;
  if (window.WebSocket && cfg.live) {
    var url = /^wss?:/.test(cfg.live) ? cfg.live :
      (location.protocol === "https:" ? "wss://" : "ws://") + location.host + cfg.live;
    try {
      socket = new WebSocket(url);
      socket.onmessage = function (event) {
        var msg = JSON.parse(event.data);
        if (msg.type === "services") { swap(msg.html); }
      };
      socket.onclose = function () { socket = null; };
    } catch (e) {
      socket = null;
    }
  }

  document.addEventListener("submit", function (event) {
    var form = event.target;
    if (!form.matches || !form.matches("form.card-select")) { return; }
    event.preventDefault();

    if (socket && socket.readyState === WebSocket.OPEN) {
      socket.send(JSON.stringify({ type: "select", code: form.elements.code.value }));
      return;
    }

    var headers = { "Content-Type": "application/x-www-form-urlencoded" };
    headers[cfg.header] = cfg.fragment;
    fetch(form.action, {
      method: "POST",
      headers: headers,
      credentials: "same-origin",
      body: new URLSearchParams(new FormData(form))
    }).then(function (resp) {
      if (!resp.ok) { throw new Error("status " + resp.status); }
      return resp.text();
    }).then(swap).catch(function () { form.submit(); });
  });
})(`

type enhanceConfig struct {
	Live     string `json:"live"`
	Header   string `json:"header"`
	Fragment string `json:"fragment"`
	Section  string `json:"section"`
}

func enhanceScript(links Links) g.Node {
	// json.Marshal escapes <, > and & so link values cannot close the element
	cfg, _ := json.Marshal(enhanceConfig{
		Live:     links.Live,
		Header:   FragmentHeader,
		Fragment: FragmentServices,
		Section:  string(SectionServices),
	})
	return h.Script(g.Attr("data-enhance", string(SectionServices)), g.Raw(enhanceJS+string(cfg)+");"))
}
