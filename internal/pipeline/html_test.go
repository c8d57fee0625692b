package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinifyHTML(t *testing.T) {
	input := `<!DOCTYPE html>
<!-- generated by bundlekit -->
<html>
  <head>
    <title>app</title>
  </head>
  <body>
    <div id="root"></div>
  </body>
</html>`

	out := minifyHTML(input)

	assert.NotContains(t, out, "<!--")
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, `<title>app</title>`)
	assert.Contains(t, out, `<div id="root"></div>`)
}

func TestMinifyHTML_MultilineComment(t *testing.T) {
	out := minifyHTML("<p></p><!-- a\nb --><p></p>")
	assert.Equal(t, "<p></p><p></p>", out)
}
