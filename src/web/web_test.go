package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"eisenhower/src/model"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	require.NoError(t, Register(engine))
	return engine
}

func get(t *testing.T, engine *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// findAll walks the tree collecting nodes that match.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for _, t := range findAll(n, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		sb.WriteString(t.Data)
	}
	return sb.String()
}

func TestIndexRendersQuadrantsInOrder(t *testing.T) {
	w := get(t, newTestEngine(t), "/")
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := html.Parse(w.Body)
	require.NoError(t, err)

	cells := findAll(doc, func(n *html.Node) bool {
		_, ok := attr(n, "data-quadrant")
		return n.Type == html.ElementNode && n.Data == "section" && ok
	})
	require.Len(t, cells, 4)

	want := []struct {
		id     model.Quadrant
		action string
	}{
		{model.UrgentImportant, "Do First"},
		{model.NotUrgentImportant, "Schedule"},
		{model.UrgentNotImportant, "Delegate"},
		{model.NotUrgentNotImportant, "Eliminate"},
	}
	for i, cell := range cells {
		id, _ := attr(cell, "data-quadrant")
		assert.Equal(t, string(want[i].id), id)
		assert.Contains(t, textOf(cell), want[i].action)
	}
}

func TestIndexCarriesClientSettings(t *testing.T) {
	w := get(t, newTestEngine(t), "/")
	doc, err := html.Parse(w.Body)
	require.NoError(t, err)

	apps := findAll(doc, func(n *html.Node) bool {
		id, _ := attr(n, "id")
		return n.Type == html.ElementNode && id == "app"
	})
	require.Len(t, apps, 1)

	q, _ := attr(apps[0], "data-default-quadrant")
	assert.Equal(t, "urgent-important", q)
	ms, _ := attr(apps[0], "data-confirm-ms")
	assert.Equal(t, "3000", ms)

	assert.Contains(t, textOf(doc), "Eisenhower Matrix")
	assert.Contains(t, textOf(doc), "Loading tasks...")
}

func TestStaticAssetsServed(t *testing.T) {
	engine := newTestEngine(t)

	js := get(t, engine, "/static/matrix.js")
	require.Equal(t, http.StatusOK, js.Code)
	assert.Contains(t, js.Body.String(), "/api/tasks")
	assert.Contains(t, js.Header().Get("Content-Type"), "javascript")

	css := get(t, engine, "/static/matrix.css")
	require.Equal(t, http.StatusOK, css.Code)
	assert.Contains(t, css.Body.String(), ".drag-over")

	assert.Equal(t, http.StatusNotFound, get(t, engine, "/static/missing.js").Code)
}
