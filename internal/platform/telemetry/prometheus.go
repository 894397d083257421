package telemetry

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const prometheusContentType = "text/plain; version=0.0.4; charset=utf-8"

// PrometheusHandler renders every collected metric in the Prometheus
// text exposition format. Series within a family are sorted so
// consecutive scrapes diff cleanly.
func (tp *TelemetryProvider) PrometheusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		var b strings.Builder
		tp.renderBuildInfo(&b)
		tp.renderDurations(&b)
		tp.renderActiveRequests(&b)
		tp.renderSizes(&b)
		tp.renderEvaluations(&b)
		tp.renderHealthGauges(&b)
		return c.Blob(http.StatusOK, prometheusContentType, []byte(b.String()))
	}
}

func (tp *TelemetryProvider) renderBuildInfo(b *strings.Builder) {
	header(b, "biomax_build_info", "gauge", "Identity of the running service.")
	fmt.Fprintf(b, "biomax_build_info{service=%q,version=%q,environment=%q} 1\n",
		tp.cfg.ServiceName, tp.cfg.ServiceVersion, tp.cfg.Environment)
}

func (tp *TelemetryProvider) renderDurations(b *strings.Builder) {
	series := tp.durationSnapshot()
	sort.Slice(series, func(i, j int) bool {
		a, z := series[i].key, series[j].key
		if a.route != z.route {
			return a.route < z.route
		}
		if a.method != z.method {
			return a.method < z.method
		}
		return a.status < z.status
	})

	header(b, "http_server_request_duration_seconds", "histogram", "Time spent handling requests, by route.")
	for _, s := range series {
		labels := []string{
			fmt.Sprintf("method=%q", s.key.method),
			fmt.Sprintf("route=%q", s.key.route),
			fmt.Sprintf("status_code=%q", strconv.Itoa(s.key.status)),
		}
		renderHistogram(b, "http_server_request_duration_seconds", labels, s.hist)
	}
}

func (tp *TelemetryProvider) renderActiveRequests(b *strings.Builder) {
	header(b, "http_server_active_requests", "gauge", "Requests currently being handled.")
	fmt.Fprintf(b, "http_server_active_requests %d\n", tp.active.Load())
}

func (tp *TelemetryProvider) renderSizes(b *strings.Builder) {
	header(b, "http_server_request_size_bytes", "histogram", "Request body sizes.")
	renderHistogram(b, "http_server_request_size_bytes", nil, tp.reqSize)
	header(b, "http_server_response_size_bytes", "histogram", "Response body sizes.")
	renderHistogram(b, "http_server_response_size_bytes", nil, tp.respSize)
}

func (tp *TelemetryProvider) renderEvaluations(b *strings.Builder) {
	type row struct {
		key   evalKey
		count int64
	}
	tp.mu.Lock()
	rows := make([]row, 0, len(tp.evals))
	for k, v := range tp.evals {
		rows = append(rows, row{key: k, count: v})
	}
	tp.mu.Unlock()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].key.category != rows[j].key.category {
			return rows[i].key.category < rows[j].key.category
		}
		return rows[i].key.outcome < rows[j].key.outcome
	})

	header(b, "formula_evaluations_total", "counter", "Formula evaluations by category and outcome.")
	for _, r := range rows {
		fmt.Fprintf(b, "formula_evaluations_total{category=%q,outcome=%q} %d\n",
			r.key.category, r.key.outcome, r.count)
	}
}

func (tp *TelemetryProvider) renderHealthGauges(b *strings.Builder) {
	rows := []struct {
		name string
		help string
	}{
		{gaugeDBActive, "Connections currently checked out of the pool."},
		{gaugeDBIdle, "Idle connections held by the pool."},
		{gaugeProfiles, "Patient profiles stored in the database."},
	}
	for _, r := range rows {
		header(b, r.name, "gauge", r.help)
		fmt.Fprintf(b, "%s %d\n", r.name, tp.gaugeValue(r.name))
	}
}

// header writes the HELP and TYPE lines that open a metric family.
func header(b *strings.Builder, name, kind, help string) {
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

// renderHistogram emits the bucket, sum and count samples for one
// series. Labels come preformatted as k="v" pairs, without le.
func renderHistogram(b *strings.Builder, name string, labels []string, h *histogram) {
	cum, sum, total := h.snapshot()
	for i, count := range cum {
		bound := "+Inf"
		if i < len(h.bounds) {
			bound = formatFloat(h.bounds[i])
		}
		withLE := append(append(make([]string, 0, len(labels)+1), labels...), "le="+strconv.Quote(bound))
		fmt.Fprintf(b, "%s_bucket{%s} %d\n", name, strings.Join(withLE, ","), count)
	}
	fmt.Fprintf(b, "%s_sum%s %s\n", name, labelBlock(labels), formatFloat(sum))
	fmt.Fprintf(b, "%s_count%s %d\n", name, labelBlock(labels), total)
}

// labelBlock renders {k="v",...}, or nothing for an empty label set.
func labelBlock(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return "{" + strings.Join(labels, ",") + "}"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
