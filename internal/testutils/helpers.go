// Package testutils holds fixtures shared by the tagcheck test suites.
package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateHTMLFile writes content to name inside a fresh temporary directory
// and returns the full path.
func CreateHTMLFile(t *testing.T, name, content string) string {
	t.Helper()
	return CreateHTMLFileIn(t, t.TempDir(), name, content)
}

// CreateHTMLFileIn writes content to dir/name and returns the full path.
func CreateHTMLFileIn(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Lines joins lines with newlines, so that line N of a fixture is easy to
// read off the test source.
func Lines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// Repeat returns n copies of markup, one per line.
func Repeat(markup string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(markup+"\n", n)
}

// WellFormedPage is a small document with balanced tags and a few void
// elements.
const WellFormedPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Dashboard</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <main>
    <h1>Leads</h1>
    <img src="logo.png" alt="logo">
    <ul>
      <li>First<br></li>
      <li>Second</li>
    </ul>
    <input type="text" name="q">
  </main>
  <script>if (a < b) { render('</div>'); }</script>
</body>
</html>
`
