package web

import (
	"net/http"
	"strconv"

	"github.com/DPlauder/meisterplan/internal/domain"
	"github.com/DPlauder/meisterplan/internal/listview"
	"github.com/DPlauder/meisterplan/internal/store"
)

const activityLimit = 500

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	data := listPage{
		page: s.basePage(r, "Activity", "activity"),
		Path: "/activity",
	}

	events, err := s.audit.List(r.Context(), store.AuditFilter{
		Entity: r.URL.Query().Get("entity"),
		Limit:  activityLimit,
	})
	if err != nil {
		s.logger.Error("list audit events error", "error", err)
		data.Error = "The activity log could not be loaded."
		s.render(w, http.StatusInternalServerError, data, "pages/list.html")
		return
	}

	pipeline := listview.New(listview.AuditSchema, s.opts.Collation)
	p := pipeline.Apply(events, listview.ParseState(r.URL.Query()))
	data.Table = buildTable(pipeline.Schema(), p, "/activity", activityCells, nil)
	s.render(w, http.StatusOK, data, "pages/list.html")
}

func activityCells(e domain.AuditEvent) []string {
	result := "ok"
	if !e.OK {
		result = e.Error
	}
	return []string{
		e.CreatedAt.Local().Format("02.01.2006 15:04:05"),
		e.Op,
		e.Entity,
		e.Key,
		strconv.FormatInt(e.DurationMS, 10),
		result,
	}
}
