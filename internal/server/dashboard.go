package server

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Instalytics</title>
<script src="https://cdn.plot.ly/plotly-2.32.0.min.js"></script>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
header { display: flex; align-items: baseline; gap: 1rem; }
select { font-size: 1rem; padding: 0.3rem; }
.cards { display: flex; gap: 1rem; margin: 1rem 0; flex-wrap: wrap; }
.card { border: 1px solid #ddd; border-radius: 8px; padding: 0.8rem 1.2rem; min-width: 10rem; }
.card .value { font-size: 1.6rem; font-weight: 600; }
.card .label { color: #777; font-size: 0.85rem; }
.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
.chart { border: 1px solid #eee; border-radius: 8px; }
#empty { color: #777; margin-top: 2rem; }
</style>
</head>
<body>
<header>
  <h1>Instalytics</h1>
  <select id="run-select"></select>
</header>
<div id="empty" hidden>No analytics runs yet. Start one with the CLI or POST /api/scrape.</div>
<div id="content" hidden>
  <div class="cards">
    <div class="card"><div class="value" id="followers"></div><div class="label">Followers</div></div>
    <div class="card"><div class="value" id="avg-rate"></div><div class="label">Avg engagement rate</div></div>
    <div class="card"><div class="value" id="influence"></div><div class="label">Influence score</div></div>
    <div class="card"><div class="value" id="posts-week"></div><div class="label">Posts / week</div></div>
    <div class="card"><div class="value" id="trend"></div><div class="label">Trend</div></div>
  </div>
  <div class="charts">
    <div id="timeline-chart" class="chart"></div>
    <div id="rate-chart" class="chart"></div>
    <div id="type-chart" class="chart"></div>
    <div id="hashtag-chart" class="chart"></div>
  </div>
</div>
<script>
async function fetchJSON(url) {
  const res = await fetch(url);
  if (!res.ok) throw new Error(url + ": " + res.status);
  const body = await res.json();
  return body.data;
}

function render(report) {
  document.getElementById("content").hidden = false;
  document.getElementById("followers").textContent = report.engagement_metrics.followers.toLocaleString();
  document.getElementById("avg-rate").textContent = report.engagement_metrics.engagement_rate + "%";
  document.getElementById("influence").textContent = report.influence_score.total;
  document.getElementById("posts-week").textContent = report.posting_frequency.posts_per_week;
  document.getElementById("trend").textContent = report.trend_analysis.trend;

  const timeline = report.trend_analysis.engagement_timeline || [];
  const dates = timeline.map(p => p.date);

  Plotly.newPlot("timeline-chart", [
    { x: dates, y: timeline.map(p => p.likes), name: "Likes", mode: "lines+markers" },
    { x: dates, y: timeline.map(p => p.comments), name: "Comments", mode: "lines+markers" }
  ], { title: "Recent engagement", margin: { t: 40 } }, { responsive: true });

  Plotly.newPlot("rate-chart", [
    { x: dates, y: timeline.map(p => p.engagement_rate), mode: "lines+markers", line: { color: "#e1306c" } }
  ], { title: "Engagement rate (%)", margin: { t: 40 } }, { responsive: true });

  const types = report.content_analysis.content_types || {};
  Plotly.newPlot("type-chart", [
    { labels: Object.keys(types), values: Object.values(types), type: "pie" }
  ], { title: "Content types", margin: { t: 40 } }, { responsive: true });

  const tags = report.content_analysis.top_hashtags || [];
  Plotly.newPlot("hashtag-chart", [
    { x: tags.map(t => "#" + t.tag), y: tags.map(t => t.count), type: "bar", marker: { color: "#405de6" } }
  ], { title: "Top hashtags", margin: { t: 40 } }, { responsive: true });
}

async function load() {
  const runs = await fetchJSON("/api/runs");
  if (!runs || runs.length === 0) {
    document.getElementById("empty").hidden = false;
    return;
  }

  const select = document.getElementById("run-select");
  for (const run of runs) {
    const opt = document.createElement("option");
    opt.value = run.id;
    opt.textContent = run.username + " (" + run.scraped_at + ")";
    select.appendChild(opt);
  }

  const show = async id => render(await fetchJSON("/api/runs/" + id));
  select.addEventListener("change", () => show(select.value));
  await show(runs[0].id);
}

load().catch(err => {
  document.getElementById("empty").hidden = false;
  document.getElementById("empty").textContent = "Failed to load runs: " + err.message;
});
</script>
</body>
</html>
`))

// Dashboard handles GET / and serves the analytics dashboard page.
func (h *Handlers) Dashboard(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return dashboardTemplate.Execute(c.Response(), nil)
}
