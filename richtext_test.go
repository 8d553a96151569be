package aktivnatura

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTMLKeepsEditorImages(t *testing.T) {
	in := `<p style="text-align: center">Vrh</p>` +
		`<img src="/public/uploads/editor/vrh.jpg" width="640" height="480" data-align="right" style="width: 50%; height: auto" alt="Vrh">` +
		`<script>alert("x")</script><img src="x" onerror="alert(1)">`
	out := SanitizeHTML(in)

	assert.Contains(t, out, `src="/public/uploads/editor/vrh.jpg"`)
	assert.Contains(t, out, `width="640"`)
	assert.Contains(t, out, `data-align="right"`)
	assert.Contains(t, out, "width: 50%")
	assert.Contains(t, out, "text-align: center")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
}

func TestSanitizeHTMLRejectsBadAttributeValues(t *testing.T) {
	out := SanitizeHTML(`<img src="/a.jpg" data-align="evil" width="100vw" style="position: fixed">`)
	assert.NotContains(t, out, "data-align")
	assert.NotContains(t, out, "100vw")
	assert.NotContains(t, out, "position")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Naslov Prvi odlomak. Drugi.", PlainText("<h2>Naslov</h2><p>Prvi   odlomak.</p><p>Drugi.</p>"))
}

func TestExcerpt(t *testing.T) {
	short := "<p>Kratak tekst.</p>"
	assert.Equal(t, "Kratak tekst.", Excerpt(short))

	long := "<p>" + strings.Repeat("planina ", 40) + "</p>"
	ex := Excerpt(long)
	assert.True(t, strings.HasSuffix(ex, "…"))
	assert.LessOrEqual(t, len([]rune(ex)), excerptLength+1)
	assert.False(t, strings.Contains(ex, "plan…"), "excerpt should cut on a word boundary")
}

func TestFirstImage(t *testing.T) {
	assert.Equal(t, "/b.jpg", FirstImage(`<p>x</p><img src="/b.jpg"><img src="/c.jpg">`))
	assert.Empty(t, FirstImage("<p>bez slike</p>"))
}
