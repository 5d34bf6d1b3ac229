package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/h0rv/fetchlist/internal/domain"
	"github.com/h0rv/fetchlist/internal/present"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func createTestView(group present.GroupFilter) present.View {
	records := []domain.Record{
		{ID: 3, ListID: 2, Name: "Sofa", Tag: domain.TagWeekend},
		{ID: 1, ListID: 1, Name: "Earbuds", Tag: domain.TagEarbuds},
	}
	return present.Present(records, present.FilterInput{Group: group})
}

func TestWriteView_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, createTestView(present.AllGroups), formatJSON))

	var out struct {
		Status string `json:"status"`
		Total  int    `json:"total"`
		Shown  int    `json:"shown"`
		Groups []struct {
			ListID  int `json:"listId"`
			Records []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
				Tag  string `json:"tag"`
			} `json:"records"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "ready", out.Status)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, 2, out.Shown)
	require.Len(t, out.Groups, 2)
	assert.Equal(t, 1, out.Groups[0].ListID)
	assert.Equal(t, "Earbuds", out.Groups[0].Records[0].Name)
	assert.Equal(t, "earbuds", out.Groups[0].Records[0].Tag)
}

func TestWriteView_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, createTestView(present.OnlyGroup(2)), formatYAML))

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "ready", out["status"])
	assert.Equal(t, 1, out["shown"])
	assert.Contains(t, buf.String(), "name: Sofa")
	assert.Contains(t, buf.String(), "tag: weekend")
}

func TestWriteView_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, createTestView(present.AllGroups), formatTable))

	out := buf.String()
	assert.Contains(t, out, "LIST")
	assert.Contains(t, out, "Earbuds")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Earbuds")), bytes.Index(buf.Bytes(), []byte("Sofa")))

	buf.Reset()
	require.NoError(t, writeView(&buf, createTestView(present.OnlyGroup(1)), formatTable))
	assert.NotContains(t, buf.String(), "LIST")
}

func TestWriteView_Placeholders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, present.Present(nil, present.FilterInput{}), formatTable))
	assert.Contains(t, buf.String(), "Nothing's here")

	buf.Reset()
	noMatch := present.Present([]domain.Record{{ID: 1, ListID: 1, Name: "a"}}, present.FilterInput{SearchText: "zz"})
	require.NoError(t, writeView(&buf, noMatch, formatTable))
	assert.Contains(t, buf.String(), "Nothing matches your search")

	buf.Reset()
	require.NoError(t, writeView(&buf, noMatch, formatJSON))
	assert.Contains(t, buf.String(), `"groups": []`)
}

func TestWriteView_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeView(&buf, createTestView(present.AllGroups), "xml"))
}
