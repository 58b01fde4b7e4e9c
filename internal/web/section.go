package web

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"

	"github.com/DPlauder/meisterplan/internal/deletion"
	"github.com/DPlauder/meisterplan/internal/form"
	"github.com/DPlauder/meisterplan/internal/listview"
	"github.com/DPlauder/meisterplan/internal/service"
	"github.com/DPlauder/meisterplan/internal/session"
)

const maxFormSize = 1 << 20 // 1 MB

// section serves the list, create, detail and delete pages of one entity.
// T is the entity and I its form input.
type section[T any, I form.Input] struct {
	s        *Server
	slug     string
	entity   string
	title    string
	newTitle string
	created  string
	pipeline *listview.Pipeline[T]

	key    func(T) string
	label  func(T) string
	cells  func(T) []string
	fields func(I, form.Errors) []formField
	parse  func(url.Values) I
	// details renders the read-only detail view. Sections with edit set
	// show an edit form instead.
	details func(T) []detail
	edit    func(T) I

	list   func(ctx context.Context, gw service.Gateway) ([]T, error)
	get    func(ctx context.Context, gw service.Gateway, key string) (*T, error)
	create func(ctx context.Context, gw service.Gateway, in I) error
	update func(ctx context.Context, gw service.Gateway, key string, cur T, in I) error
	remove func(ctx context.Context, gw service.Gateway, key string) error
}

func (sec *section[T, I]) base() string {
	return "/" + sec.slug
}

func (sec *section[T, I]) itemURL(key string) string {
	return sec.base() + "/" + url.PathEscape(key)
}

func (sec *section[T, I]) register(mux *http.ServeMux) {
	base := sec.base()
	mux.HandleFunc("GET "+base, sec.handleList)
	mux.HandleFunc("POST "+base, sec.handleCreate)
	mux.HandleFunc("GET "+base+"/new", sec.handleNew)
	mux.HandleFunc("GET "+base+"/{key}", sec.handleDetail)
	if sec.edit != nil && sec.update != nil {
		mux.HandleFunc("POST "+base+"/{key}", sec.handleUpdate)
	}
	mux.HandleFunc("POST "+base+"/{key}/delete", sec.handleRequestDelete)
	mux.HandleFunc("POST "+base+"/delete/confirm", sec.handleConfirmDelete)
	mux.HandleFunc("POST "+base+"/delete/cancel", sec.handleCancelDelete)
}

func (sec *section[T, I]) handleList(w http.ResponseWriter, r *http.Request) {
	sec.renderList(w, r, http.StatusOK, "")
}

// renderList fetches the collection and renders one page of it. A failed
// fetch replaces the table with the error.
func (sec *section[T, I]) renderList(w http.ResponseWriter, r *http.Request, status int, deleteErr string) {
	s := sec.s
	state := listview.ParseState(r.URL.Query())
	data := listPage{
		page:        s.basePage(r, sec.title, sec.slug),
		Path:        sec.base(),
		NewURL:      sec.base() + "/new",
		DeleteError: deleteErr,
	}

	items, err := sec.list(r.Context(), s.gatewayFor(r))
	if err != nil {
		s.logger.Error("list error", "entity", sec.entity, "error", err)
		data.Error = userMessage(err)
		s.render(w, statusFor(err), data, "pages/list.html")
		return
	}

	p := sec.pipeline.Apply(items, state)
	data.Table = buildTable(sec.pipeline.Schema(), p, sec.base(), sec.cells, sec.key)

	sess := sessionFrom(r.Context())
	if key, ok := sess.Data.PendingKey(sec.entity); ok {
		label := key
		for _, it := range items {
			if sec.key(it) == key {
				label = sec.label(it)
				break
			}
		}
		query := p.State.Query()
		data.Confirm = &confirmDialog{
			Label:      label,
			ConfirmURL: withQuery(sec.base()+"/delete/confirm", query),
			CancelURL:  withQuery(sec.base()+"/delete/cancel", query),
		}
	}

	s.render(w, status, data, "pages/list.html")
}

func (sec *section[T, I]) handleNew(w http.ResponseWriter, r *http.Request) {
	var in I
	sec.renderForm(w, r, http.StatusOK, sec.newForm(r, in, nil))
}

func (sec *section[T, I]) newForm(r *http.Request, in I, errs form.Errors) formPage {
	return formPage{
		page:    sec.s.basePage(r, sec.newTitle, sec.slug),
		Action:  sec.base(),
		Submit:  "Create",
		Fields:  sec.fields(in, errs),
		BackURL: sec.base(),
	}
}

func (sec *section[T, I]) editForm(r *http.Request, key string, in I, errs form.Errors) formPage {
	return formPage{
		page:      sec.s.basePage(r, sec.title, sec.slug),
		Action:    sec.itemURL(key),
		Submit:    "Save",
		Fields:    sec.fields(in, errs),
		BackURL:   sec.base(),
		DeleteURL: sec.itemURL(key) + "/delete",
	}
}

// renderForm issues a fresh submit token for every rendered form.
func (sec *section[T, I]) renderForm(w http.ResponseWriter, r *http.Request, status int, data formPage) {
	data.SubmitToken = session.NewSubmitToken()
	sec.s.render(w, status, data, "pages/form.html")
}

// readForm parses the posted input and claims its submit token. It writes
// the response itself and returns false when the request must stop.
func (sec *section[T, I]) readForm(w http.ResponseWriter, r *http.Request, back string) (I, bool) {
	s := sec.s
	var in I

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return in, false
	}
	token := r.PostFormValue("submitToken")
	if token == "" {
		http.Error(w, "missing submit token", http.StatusBadRequest)
		return in, false
	}

	sess := sessionFrom(r.Context())
	fresh, err := s.sessions.Claim(r.Context(), sess.ID, token)
	if err != nil {
		http.Error(w, "failed to check submit token", http.StatusInternalServerError)
		s.logger.Error("claim submit token error", "error", err)
		return in, false
	}
	if !fresh {
		s.renderError(w, r, http.StatusConflict, "This form has already been submitted.", back)
		return in, false
	}
	return sec.parse(r.PostForm), true
}

func (sec *section[T, I]) handleCreate(w http.ResponseWriter, r *http.Request) {
	s := sec.s
	in, ok := sec.readForm(w, r, sec.base()+"/new")
	if !ok {
		return
	}

	gw := s.gatewayFor(r)
	ctrl := form.NewController(func(ctx context.Context, in I) error {
		return sec.create(ctx, gw, in)
	}, 0)
	ctrl.Set(in)

	if err := ctrl.Submit(r.Context()); err != nil {
		sec.renderSubmitError(w, r, err, sec.newForm(r, in, ctrl.State().Errors))
		return
	}

	data := successPage{
		page:    s.basePage(r, sec.created, sec.slug),
		Message: "The new " + sec.entity + " was added.",
		NextURL: sec.base() + "/new",
		BackURL: sec.base(),
	}
	if d := s.opts.ResetDelay; d > 0 {
		data.Refresh = &refresh{Seconds: int(math.Ceil(d.Seconds())), URL: data.NextURL}
	}
	s.render(w, http.StatusCreated, data, "pages/success.html")
}

// renderSubmitError re-renders a form after a failed submit. The input is kept.
func (sec *section[T, I]) renderSubmitError(w http.ResponseWriter, r *http.Request, err error, data formPage) {
	var errs form.Errors
	if errors.As(err, &errs) {
		sec.renderForm(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	sec.s.logger.Error("submit error", "entity", sec.entity, "error", err)
	data.Error = userMessage(err)
	sec.renderForm(w, r, statusFor(err), data)
}

func (sec *section[T, I]) handleDetail(w http.ResponseWriter, r *http.Request) {
	s := sec.s
	key := r.PathValue("key")

	item, err := sec.get(r.Context(), s.gatewayFor(r), key)
	if err != nil {
		s.logger.Error("get error", "entity", sec.entity, "key", key, "error", err)
		s.renderError(w, r, statusFor(err), userMessage(err), sec.base())
		return
	}

	if sec.edit != nil {
		sec.renderForm(w, r, http.StatusOK, sec.editForm(r, key, sec.edit(*item), nil))
		return
	}
	s.render(w, http.StatusOK, detailPage{
		page:      s.basePage(r, sec.label(*item), sec.slug),
		Details:   sec.details(*item),
		DeleteURL: sec.itemURL(key) + "/delete",
		BackURL:   sec.base(),
	}, "pages/detail.html")
}

func (sec *section[T, I]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s := sec.s
	key := r.PathValue("key")
	in, ok := sec.readForm(w, r, sec.itemURL(key))
	if !ok {
		return
	}

	gw := s.gatewayFor(r)
	cur, err := sec.get(r.Context(), gw, key)
	if err != nil {
		s.logger.Error("get error", "entity", sec.entity, "key", key, "error", err)
		s.renderError(w, r, statusFor(err), userMessage(err), sec.base())
		return
	}

	ctrl := form.NewController(func(ctx context.Context, in I) error {
		return sec.update(ctx, gw, key, *cur, in)
	}, 0)
	ctrl.Set(in)

	if err := ctrl.Submit(r.Context()); err != nil {
		sec.renderSubmitError(w, r, err, sec.editForm(r, key, in, ctrl.State().Errors))
		return
	}
	http.Redirect(w, r, sec.base(), http.StatusSeeOther)
}

// flow resumes the session's staged delete as a deletion.Flow.
func (sec *section[T, I]) flow(r *http.Request) *deletion.Flow {
	s := sec.s
	gw := s.gatewayFor(r)
	f := deletion.New(
		func(ctx context.Context, key string) error { return sec.remove(ctx, gw, key) },
		func(key string) { s.logger.Info("deleted", "entity", sec.entity, "key", key) },
		func(key string, err error) {
			s.logger.Error("delete error", "entity", sec.entity, "key", key, "error", err)
		},
	)
	if key, ok := sessionFrom(r.Context()).Data.PendingKey(sec.entity); ok {
		f.RequestDelete(key)
	}
	return f
}

// persist writes the flow's staged key back to the session.
func (sec *section[T, I]) persist(r *http.Request, f *deletion.Flow) error {
	sess := sessionFrom(r.Context())
	if key, ok := f.Pending(); ok {
		sess.Data.SetPending(sec.entity, key)
	} else {
		sess.Data.ClearPending(sec.entity)
	}
	return sec.s.saveSession(r)
}

func (sec *section[T, I]) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	f := sec.flow(r)
	f.RequestDelete(r.PathValue("key"))
	sec.finishDeleteStep(w, r, f)
}

func (sec *section[T, I]) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	f := sec.flow(r)
	f.CancelDelete()
	sec.finishDeleteStep(w, r, f)
}

func (sec *section[T, I]) finishDeleteStep(w http.ResponseWriter, r *http.Request, f *deletion.Flow) {
	if err := sec.persist(r, f); err != nil {
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		sec.s.logger.Error("save session error", "error", err)
		return
	}
	http.Redirect(w, r, withQuery(sec.base(), r.URL.Query()), http.StatusSeeOther)
}

func (sec *section[T, I]) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	f := sec.flow(r)
	confirmErr := f.ConfirmDelete(r.Context())

	if err := sec.persist(r, f); err != nil {
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		sec.s.logger.Error("save session error", "error", err)
		return
	}

	if confirmErr != nil {
		sec.renderList(w, r, statusFor(confirmErr), userMessage(confirmErr))
		return
	}
	http.Redirect(w, r, withQuery(sec.base(), r.URL.Query()), http.StatusSeeOther)
}
