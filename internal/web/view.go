package web

import (
	"net/url"

	"github.com/DPlauder/meisterplan/internal/listview"
)

// page is the data every template's base layout reads.
type page struct {
	Title     string
	ActiveNav string
	SignedIn  bool
	Email     string
	Error     string
	Refresh   *refresh
}

type refresh struct {
	Seconds int
	URL     string
}

type column struct {
	Label   string
	SortURL string
	Active  bool
	Dir     string
}

type row struct {
	Cells     []string
	DetailURL string
	DeleteURL string
}

type table struct {
	Columns   []column
	Rows      []row
	Search    string
	SortField string
	Dir       string
	Page      int
	Pages     int
	Start     int
	End       int
	Total     int
	PrevURL   string
	NextURL   string
	Actions   bool
}

type confirmDialog struct {
	Label      string
	ConfirmURL string
	CancelURL  string
}

type listPage struct {
	page
	Path        string
	NewURL      string
	Table       table
	Confirm     *confirmDialog
	DeleteError string
}

type formField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Error    string
	Required bool
	Options  []string
}

type formPage struct {
	page
	Action      string
	Submit      string
	SubmitToken string
	Fields      []formField
	BackURL     string
	DeleteURL   string
}

type successPage struct {
	page
	Message string
	NextURL string
	BackURL string
}

type detail struct {
	Label string
	Value string
}

type detailPage struct {
	page
	Details   []detail
	DeleteURL string
	BackURL   string
}

type errorPage struct {
	page
	BackURL string
}

// buildTable turns one list page into rows and header links. key is nil for
// read-only tables.
func buildTable[T any](schema listview.Schema[T], p listview.Page[T], base string, cells func(T) []string, key func(T) string) table {
	st := p.State
	active := st.Sort
	if _, ok := schema.Lookup(active); !ok {
		active = schema.DefaultSort
	}

	t := table{
		Search:  st.Search,
		Page:    p.Page,
		Pages:   p.Pages,
		Start:   p.Start,
		End:     p.End,
		Total:   p.Total,
		Actions: key != nil,
	}
	if st.Sort != "" {
		t.SortField = st.Sort
		t.Dir = st.Dir.String()
	}

	for _, f := range schema.Fields {
		cur := st
		if cur.Sort == "" && active != "" {
			// The default order is ascending by the default field.
			cur.Sort = active
			cur.Dir = listview.Asc
		}
		col := column{
			Label:   f.Label,
			SortURL: withQuery(base, cur.ToggleSort(f.Name).Query()),
			Active:  f.Name == active,
		}
		if col.Active {
			col.Dir = cur.Dir.String()
		}
		t.Columns = append(t.Columns, col)
	}

	query := st.Query()
	for _, it := range p.Items {
		r := row{Cells: cells(it)}
		if key != nil {
			k := url.PathEscape(key(it))
			r.DetailURL = base + "/" + k
			r.DeleteURL = withQuery(base+"/"+k+"/delete", query)
		}
		t.Rows = append(t.Rows, r)
	}

	if p.HasPrev() {
		t.PrevURL = withQuery(base, st.Prev().Query())
	}
	if p.HasNext() {
		t.NextURL = withQuery(base, st.Next(p.Pages).Query())
	}
	return t
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
