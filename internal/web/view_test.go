package web

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/DPlauder/meisterplan/internal/domain"
	"github.com/DPlauder/meisterplan/internal/listview"
)

func customerCells(c domain.BusinessCustomer) []string { return []string{c.Name} }
func customerKey(c domain.BusinessCustomer) string     { return c.ID }

func TestBuildTableSortLinks(t *testing.T) {
	p := listview.New(listview.CustomerSchema, language.German)
	items := []domain.BusinessCustomer{{ID: "1", Name: "b"}, {ID: "2", Name: "a"}}

	tb := buildTable(p.Schema(), p.Apply(items, listview.State{Page: 1}), "/customers", customerCells, customerKey)

	require.NotEmpty(t, tb.Columns)
	// The default column is active and its link flips the direction.
	assert.True(t, tb.Columns[0].Active)
	assert.Equal(t, "asc", tb.Columns[0].Dir)
	assert.Equal(t, "/customers?dir=desc&sort=name", tb.Columns[0].SortURL)
	assert.False(t, tb.Columns[1].Active)
	assert.Equal(t, "/customers?dir=asc&sort=email", tb.Columns[1].SortURL)

	require.Len(t, tb.Rows, 2)
	assert.Equal(t, []string{"a"}, tb.Rows[0].Cells)
	assert.Equal(t, "/customers/2", tb.Rows[0].DetailURL)
	assert.Equal(t, "/customers/2/delete", tb.Rows[0].DeleteURL)
	assert.True(t, tb.Actions)
}

func TestBuildTablePaging(t *testing.T) {
	p := listview.New(listview.CustomerSchema, language.German)
	var items []domain.BusinessCustomer
	for i := range 25 {
		items = append(items, domain.BusinessCustomer{ID: fmt.Sprint(i), Name: fmt.Sprintf("c%02d", i)})
	}

	state := listview.State{Search: "c", Page: 2}
	tb := buildTable(p.Schema(), p.Apply(items, state), "/customers", customerCells, customerKey)

	assert.Equal(t, 11, tb.Start)
	assert.Equal(t, 20, tb.End)
	assert.Equal(t, "/customers?q=c", tb.PrevURL)
	assert.Equal(t, "/customers?page=3&q=c", tb.NextURL)
	assert.Equal(t, "/customers/10/delete?page=2&q=c", tb.Rows[0].DeleteURL)
}

func TestBuildTableReadOnly(t *testing.T) {
	p := listview.New(listview.AuditSchema, language.German)
	tb := buildTable(p.Schema(), p.Apply([]domain.AuditEvent{{Op: "list"}}, listview.State{}), "/activity", activityCells, nil)

	assert.False(t, tb.Actions)
	require.Len(t, tb.Rows, 1)
	assert.Empty(t, tb.Rows[0].DetailURL)
	for _, c := range tb.Columns {
		assert.False(t, c.Active)
	}
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "/x", withQuery("/x", nil))
	assert.Equal(t, "/x?page=2", withQuery("/x", listview.State{Page: 2}.Query()))
}
