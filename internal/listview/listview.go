// Package listview turns a fetched collection into one page of a searchable,
// sortable table.
package listview

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const PageSize = 10

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Field is a sortable column. Number is set for numeric columns and wins over
// Text when sorting.
type Field[T any] struct {
	Name   string
	Label  string
	Text   func(T) string
	Number func(T) float64
}

// Schema describes how one entity is searched and sorted. An empty
// DefaultSort keeps the source order until a column is chosen.
type Schema[T any] struct {
	Fields      []Field[T]
	Search      []func(T) string
	DefaultSort string
}

// Lookup returns the field called name.
func (s Schema[T]) Lookup(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// State is the user's view of a list: search term, active column and page.
// The zero value is page 1 in the schema's default order.
type State struct {
	Search string
	Sort   string
	Dir    Direction
	Page   int
}

// WithSearch sets the search term and goes back to the first page.
func (s State) WithSearch(term string) State {
	s.Search = term
	s.Page = 1
	return s
}

// ToggleSort flips the direction when field is already active and otherwise
// sorts ascending by field.
func (s State) ToggleSort(field string) State {
	if s.Sort == field {
		if s.Dir == Asc {
			s.Dir = Desc
		} else {
			s.Dir = Asc
		}
		return s
	}
	s.Sort = field
	s.Dir = Asc
	return s
}

// Next moves one page forward, staying on the last of pages.
func (s State) Next(pages int) State {
	s.Page = clampPage(s.Page+1, pages)
	return s
}

// Prev moves one page back, staying on the first.
func (s State) Prev() State {
	s.Page = max(s.Page-1, 1)
	return s
}

// Query encodes s as URL query values (q, sort, dir, page).
func (s State) Query() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set("q", s.Search)
	}
	if s.Sort != "" {
		v.Set("sort", s.Sort)
		v.Set("dir", s.Dir.String())
	}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	return v
}

// ParseState reads a State from query values written by Query.
func ParseState(v url.Values) State {
	s := State{
		Search: v.Get("q"),
		Sort:   v.Get("sort"),
		Page:   1,
	}
	if v.Get("dir") == "desc" {
		s.Dir = Desc
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		s.Page = p
	}
	return s
}

// Page is one rendered slice of a filtered, sorted collection. Start and End
// are the 1-based positions of the first and last item shown.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Pages int
	Start int
	End   int
	State State
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }
func (p Page[T]) HasNext() bool { return p.Page < p.Pages }

// Pipeline applies a Schema under one collation language.
type Pipeline[T any] struct {
	schema Schema[T]
	lang   language.Tag
}

func New[T any](schema Schema[T], lang language.Tag) *Pipeline[T] {
	return &Pipeline[T]{schema: schema, lang: lang}
}

func (p *Pipeline[T]) Schema() Schema[T] {
	return p.schema
}

// Apply filters items by s.Search, sorts them and cuts out page s.Page. The
// input slice is not modified. Out-of-range pages are clamped.
func (p *Pipeline[T]) Apply(items []T, s State) Page[T] {
	matched := p.Filter(items, s.Search)
	p.Sort(matched, s.Sort, s.Dir)
	return paginate(matched, s)
}

// Filter returns the items whose search fields contain term, ignoring case.
func (p *Pipeline[T]) Filter(items []T, term string) []T {
	out := make([]T, 0, len(items))
	needle := strings.ToLower(term)
	for _, it := range items {
		if needle == "" || p.matches(it, needle) {
			out = append(out, it)
		}
	}
	return out
}

func (p *Pipeline[T]) matches(it T, needle string) bool {
	for _, get := range p.schema.Search {
		if strings.Contains(strings.ToLower(get(it)), needle) {
			return true
		}
	}
	return false
}

// Sort orders items in place by the named field. Unknown names fall back to
// the schema default. The sort is stable.
func (p *Pipeline[T]) Sort(items []T, field string, dir Direction) {
	f, ok := p.schema.Lookup(field)
	if !ok {
		if f, ok = p.schema.Lookup(p.schema.DefaultSort); !ok {
			return
		}
	}

	var compare func(a, b T) int
	if f.Number != nil {
		compare = func(a, b T) int { return cmp.Compare(f.Number(a), f.Number(b)) }
	} else {
		// Collators keep scratch buffers and must not be shared across goroutines.
		col := collate.New(p.lang)
		compare = func(a, b T) int { return col.CompareString(f.Text(a), f.Text(b)) }
	}
	if dir == Desc {
		asc := compare
		compare = func(a, b T) int { return asc(b, a) }
	}
	slices.SortStableFunc(items, compare)
}

func paginate[T any](items []T, s State) Page[T] {
	total := len(items)
	pages := (total + PageSize - 1) / PageSize
	page := clampPage(s.Page, pages)
	s.Page = page

	start := min((page-1)*PageSize, total)
	end := min(start+PageSize, total)

	out := Page[T]{
		Items: items[start:end],
		Total: total,
		Page:  page,
		Pages: pages,
		End:   end,
		State: s,
	}
	if end > start {
		out.Start = start + 1
	}
	return out
}

func clampPage(page, pages int) int {
	if page > pages {
		page = pages
	}
	return max(page, 1)
}
