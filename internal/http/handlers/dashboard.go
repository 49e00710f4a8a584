package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/naturesvirtue-bot/internal/catalog"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/observability/metrics"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>{{.Shop.Name}} WhatsApp Bot</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 40px; background: #f0f9f0; }
    .container { max-width: 800px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
    h1 { color: #2d7a2d; margin-bottom: 10px; }
    .status { background: #d4edda; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #28a745; }
    .info { background: #e7f3ff; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #007bff; }
    .stat { display: inline-block; margin: 10px 20px 10px 0; }
    .stat strong { color: #2d7a2d; }
    a { color: #2d7a2d; text-decoration: none; }
    a:hover { text-decoration: underline; }
  </style>
</head>
<body>
  <div class="container">
    <h1>🌿 {{.Shop.Name}} WhatsApp AI Bot</h1>
    <p>Premium Natural Products | {{.Shop.Certified}} Certified</p>

    <div class="status">
      <strong>✅ Bot Status:</strong> Running<br>
      <strong>⏰ Uptime:</strong> {{.Uptime}}<br>
      <strong>🚀 Started:</strong> {{.StartedAt}}
    </div>

    <div class="info">
      <div class="stat"><strong>📦 Total Products:</strong> {{.TotalProducts}}</div>
      <div class="stat"><strong>💬 Active Chats:</strong> {{.ActiveChats}}</div>
      <div class="stat"><strong>🌍 Languages:</strong> English, සිංහල, தமிழ்</div>
      <div class="stat"><strong>🤖 AI Model:</strong> {{.ModelID}}</div>
      <div class="stat"><strong>📏 Message Limit:</strong> {{.MessageLimit}} chars</div>
    </div>

    {{if .Stats}}
    <div class="info">
      {{range .Stats}}<div class="stat"><strong>{{.Label}}:</strong> {{.Value}}</div>{{end}}
    </div>
    {{end}}

    <h3>📋 Product Categories:</h3>
    <ul>
      {{range .Shop.Categories}}<li><strong>{{.Name}}:</strong> {{len .Products}} products</li>{{end}}
    </ul>

    <h3>🔗 Quick Links:</h3>
    <ul>
      <li><a href="/health">Health Check</a></li>
      <li><a href="/conversations">View Active Conversations</a></li>
      <li><a href="/metrics">Metrics</a></li>
      {{if .Shop.Info.Website}}<li><a href="{{.Shop.Info.Website}}" target="_blank">Visit Website</a></li>{{end}}
    </ul>

    <h3>📞 Contact:</h3>
    <ul>
      <li><strong>WhatsApp:</strong> {{.Shop.Info.Phone}}</li>
      <li><strong>Email:</strong> {{.Shop.Info.Email}}</li>
      <li><strong>Location:</strong> {{.Shop.Info.Location}}</li>
    </ul>
  </div>
</body>
</html>`))

type dashboardShop struct {
	Name       string
	Certified  string
	Info       catalog.ShopInfo
	Categories []catalog.Category
}

type dashboardStat struct {
	Label string
	Value string
}

type dashboardView struct {
	Shop          dashboardShop
	Uptime        string
	StartedAt     string
	TotalProducts int
	ActiveChats   int
	ModelID       string
	MessageLimit  int
	Stats         []dashboardStat
}

// DashboardHandler renders the human-readable status page.
type DashboardHandler struct {
	info     ServiceInfo
	store    *conversation.Store
	catalog  *catalog.Catalog
	gatherer prometheus.Gatherer
	logger   *logging.Logger
	now      func() time.Time
}

func NewDashboardHandler(info ServiceInfo, store *conversation.Store, cat *catalog.Catalog, gatherer prometheus.Gatherer, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{
		info:     info,
		store:    store,
		catalog:  cat,
		gatherer: gatherer,
		logger:   logger,
		now:      time.Now,
	}
}

// ServeHTTP handles GET /.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view := dashboardView{
		Shop: dashboardShop{
			Name:       h.catalog.Shop.Name,
			Certified:  h.catalog.Shop.Certified,
			Info:       h.catalog.Shop,
			Categories: h.catalog.Categories,
		},
		Uptime:        formatUptime(h.now().Sub(h.info.StartedAt)),
		StartedAt:     h.info.StartedAt.Format(time.RFC1123),
		TotalProducts: h.catalog.TotalProducts(),
		ActiveChats:   h.store.Count(),
		ModelID:       h.info.ModelID,
		MessageLimit:  h.info.MessageLimit,
		Stats:         statsFromSnapshot(metrics.TakeSnapshot(h.gatherer)),
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		h.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func statsFromSnapshot(snap metrics.Snapshot) []dashboardStat {
	var stats []dashboardStat
	if n := snap.Inbound["responded"]; n > 0 {
		stats = append(stats, dashboardStat{"🤖 Replies Sent", fmt.Sprint(n)})
	}
	if n := snap.Inbound["off_topic"]; n > 0 {
		stats = append(stats, dashboardStat{"🚫 Off-topic", fmt.Sprint(n)})
	}
	if n := snap.Inbound["errored"]; n > 0 {
		stats = append(stats, dashboardStat{"⚠️ Errors", fmt.Sprint(n)})
	}
	if snap.CompletionTotal > 0 {
		stats = append(stats, dashboardStat{"⏱️ Reply p95", fmt.Sprintf("%.0f ms", snap.CompletionP95Ms)})
	}
	langs := make([]string, 0, len(snap.Languages))
	for lang := range snap.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		stats = append(stats, dashboardStat{"🌐 " + lang, fmt.Sprint(snap.Languages[lang])})
	}
	return stats
}

func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d.Seconds())
	return fmt.Sprintf("%dh %dm %ds", secs/3600, (secs%3600)/60, secs%60)
}
