package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intelliplan-admin/internal/aggregate"
	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	"github.com/yungbote/intelliplan-admin/internal/http/response"
	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/gcp"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/reconcile"
	"github.com/yungbote/intelliplan-admin/internal/view"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultChartWidth  = 800
	defaultChartHeight = 480
	maxChartSide       = 2400

	// reloadUsers names the user summary collection in ?kinds=.
	reloadUsers = "users"
)

// SummaryRefresher rebuilds the user summary collection on demand and
// reports why the last rebuild could not list users.
type SummaryRefresher interface {
	Current() *reconcile.Snapshot
	Refresh(ctx context.Context) (*reconcile.Snapshot, error)
	LastError() error
}

// DashboardHandler serves read-only projections of the operator's held
// dashboard state. Every request reads one consistent Source.
type DashboardHandler struct {
	log        *logger.Logger
	stores     *dashboard.Manager
	summaries  SummaryRefresher
	thresholds aggregate.Thresholds
	perPage    int
	reports    gcp.ReportStore
	now        func() time.Time
}

func NewDashboardHandler(log *logger.Logger, stores *dashboard.Manager, summaries SummaryRefresher, thresholds aggregate.Thresholds, perPage int, reports gcp.ReportStore) *DashboardHandler {
	if perPage <= 0 {
		perPage = view.DefaultPerPage
	}
	return &DashboardHandler{
		log:        log.With("handler", "DashboardHandler"),
		stores:     stores,
		summaries:  summaries,
		thresholds: thresholds,
		perPage:    perPage,
		reports:    reports,
		now:        time.Now,
	}
}

// source opens the operator's store, loading side collections on first use.
func (h *DashboardHandler) source(c *gin.Context) (view.Source, bool) {
	op := ctxutil.GetOperator(c.Request.Context())
	if op == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNoOperator)
		return view.Source{}, false
	}
	store := h.stores.Open(*op)
	if err := store.EnsureLoaded(c.Request.Context()); err != nil {
		h.log.Warn("dashboard load failed", "session_id", op.SessionID, "error", err)
		response.RespondErr(c, err, "dashboard_load_failed")
		return view.Source{}, false
	}
	if store.Snapshot() == nil {
		h.respondNoSnapshot(c)
		return view.Source{}, false
	}
	return view.SourceFromStore(store, h.now()), true
}

func (h *DashboardHandler) Report(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	response.RespondOK(c, view.BuildReport(src, h.thresholds))
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	response.RespondOK(c, gin.H{
		"generation": src.Generation,
		"overview":   aggregate.ComputeOverview(src.Inputs(), src.Now, src.Loc, h.thresholds),
		"degraded":   src.Degraded,
	})
}

func (h *DashboardHandler) respondNoSnapshot(c *gin.Context) {
	if err := h.summaries.LastError(); err != nil {
		response.RespondError(c, http.StatusServiceUnavailable, "snapshot_failed", fmt.Errorf("loading users failed: %w", err))
		return
	}
	response.RespondError(c, http.StatusServiceUnavailable, "snapshot_pending", fmt.Errorf("user snapshot not ready"))
}

// Reload rebuilds the named collections (comma separated kinds, "users" for
// the user summaries), or all of them.
func (h *DashboardHandler) Reload(c *gin.Context) {
	op := ctxutil.GetOperator(c.Request.Context())
	if op == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNoOperator)
		return
	}
	kinds, users, err := parseKinds(c.Query("kinds"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_kind", err)
		return
	}
	ctx := c.Request.Context()
	if users {
		if _, err := h.summaries.Refresh(ctx); err != nil && !errors.Is(err, reconcile.ErrStale) {
			h.log.Warn("user summary reload failed", "session_id", op.SessionID, "error", err)
			h.respondNoSnapshot(c)
			return
		}
	}
	if !users || len(kinds) > 0 {
		if err := h.stores.Open(*op).Load(ctx, kinds...); err != nil {
			response.RespondErr(c, err, "dashboard_load_failed")
			return
		}
	}
	var gen uint64
	if snap := h.summaries.Current(); snap != nil {
		gen = snap.Generation
	}
	response.RespondOK(c, gin.H{"ok": true, "kinds": kinds, "users": users, "generation": gen})
}

// parseKinds reads ?kinds=. An empty list selects the users and every side
// collection.
func parseKinds(raw string) ([]dashboard.Kind, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return append([]dashboard.Kind{}, dashboard.AllKinds...), true, nil
	}
	var (
		out   []dashboard.Kind
		users bool
	)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == reloadUsers {
			users = true
			continue
		}
		k := dashboard.Kind(part)
		if !k.Valid() {
			return nil, false, fmt.Errorf("unknown collection %q", part)
		}
		out = append(out, k)
	}
	return out, users, nil
}

func (h *DashboardHandler) Charts(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	response.RespondOK(c, view.Charts(src))
}

func (h *DashboardHandler) Chart(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	chart, found := view.ChartByKey(src, c.Param("key"))
	if !found {
		response.RespondError(c, http.StatusNotFound, "chart_not_found", errUnknownChart)
		return
	}
	response.RespondOK(c, chart)
}

// ChartPNG renders one chart; w and h default to 800x480.
func (h *DashboardHandler) ChartPNG(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	chart, found := view.ChartByKey(src, c.Param("key"))
	if !found {
		response.RespondError(c, http.StatusNotFound, "chart_not_found", errUnknownChart)
		return
	}
	width := clampInt(queryInt(c, "w", defaultChartWidth), 1, maxChartSide)
	height := clampInt(queryInt(c, "h", defaultChartHeight), 1, maxChartSide)
	var buf bytes.Buffer
	if err := view.RenderPNG(chart, &buf, width, height); err != nil {
		response.RespondError(c, http.StatusBadRequest, "render_failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *DashboardHandler) Users(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	filtered := view.FilterUsers(src.Users, view.ParseUserFilter(c.Query("filter")), c.Query("q"), src.Now)
	rows := view.UserRows(filtered, src.Now)
	response.RespondOK(c, view.Paginate(rows, queryInt(c, "page", 1), h.perPage))
}

func (h *DashboardHandler) Subjects(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	rows := view.FilterSubjects(src.Subjects, c.Query("q"))
	response.RespondOK(c, view.Paginate(rows, queryInt(c, "page", 1), h.perPage))
}

func (h *DashboardHandler) Feedback(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	rows := view.FilterFeedback(src.Feedback, view.UserNames(src.Users), c.Query("q"), src.Now)
	response.RespondOK(c, view.Paginate(rows, queryInt(c, "page", 1), h.perPage))
}

func (h *DashboardHandler) AuditLogs(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	rows := view.FilterAuditLogs(src.AuditLogs, c.Query("q"), src.Now)
	response.RespondOK(c, view.Paginate(rows, queryInt(c, "page", 1), h.perPage))
}

func (h *DashboardHandler) Search(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	response.RespondOK(c, view.GlobalSearch(c.Query("q"), src.Users, src.Tasks, src.Subjects, src.Feedback))
}

// Export streams the dashboard as an XLSX workbook.
func (h *DashboardHandler) Export(c *gin.Context) {
	src, ok := h.source(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := view.WriteXLSX(&buf, view.BuildReport(src, h.thresholds), src); err != nil {
		response.RespondErr(c, err, "export_failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportName(src.Now)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// UploadExport writes the workbook to the report bucket.
func (h *DashboardHandler) UploadExport(c *gin.Context) {
	if h.reports == nil {
		response.RespondErr(c, apierr.New(http.StatusNotImplemented, "reports_disabled", errNoReportStore), "reports_disabled")
		return
	}
	src, ok := h.source(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := view.WriteXLSX(&buf, view.BuildReport(src, h.thresholds), src); err != nil {
		response.RespondErr(c, err, "export_failed")
		return
	}
	stored, err := h.reports.Upload(c.Request.Context(), exportName(src.Now), xlsxContentType, &buf)
	if err != nil {
		h.log.Error("report upload failed", "error", err)
		response.RespondErr(c, apierr.New(http.StatusBadGateway, "upload_failed", err), "upload_failed")
		return
	}
	response.RespondCreated(c, stored)
}

func exportName(now time.Time) string {
	return fmt.Sprintf("intelliplan-dashboard-%s.xlsx", now.UTC().Format("20060102-150405"))
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
