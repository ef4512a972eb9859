package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"feedpress/internal/cli"
	"feedpress/pkg/opml"
)

const testFeed = `<?xml version="1.0"?><rss version="2.0"><channel><title>X</title>
<item><title>Alpha</title><link>http://x/1</link><description>a</description></item>
<item><title>Beta</title><link>http://x/2</link><description>b</description></item>
</channel></rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		fmt.Fprint(w, testFeed)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	dir        string
	configPath string
	outputDir  string
}

func writeConfig(t *testing.T, body string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "feedpress.yaml"),
		outputDir:  filepath.Join(dir, "public"),
	}
	content := fmt.Sprintf("output_dir: %s\nlog_level: error\n%s", env.outputDir, body)
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0o644))
	return env
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := cli.New(&out).RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := cli.New(&bytes.Buffer{}).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"generate", "serve", "watch", "history", "feeds"} {
		require.Contains(t, names, want)
	}
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
	require.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

func TestGenerate_WritesSite(t *testing.T) {
	srv := newFeedServer(t)
	env := writeConfig(t, fmt.Sprintf("feeds:\n  - title: T\n    url: %s/rss\n  - title: Gone\n    url: %s/gone\n", srv.URL, srv.URL))

	out, err := execute(t, "generate", "--config", env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "Generated 2 articles")
	require.Contains(t, out, "1 of 2 feeds failed")
	require.Contains(t, out, srv.URL+"/gone")

	require.FileExists(t, filepath.Join(env.outputDir, "index.html"))
	require.FileExists(t, filepath.Join(env.outputDir, "article-1.html"))
	require.FileExists(t, filepath.Join(env.outputDir, "article-2.html"))
}

func TestGenerate_InvalidConfig(t *testing.T) {
	env := writeConfig(t, "layout: sideways\nfeeds:\n  - title: T\n    url: http://example.com/rss\n")

	_, err := execute(t, "generate", "--config", env.configPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "layout")
	require.NoDirExists(t, env.outputDir)
}

func TestGenerate_MissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "generate", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

var runIDPattern = regexp.MustCompile(`(?m)^(\d{6,})\s`)

func TestHistory_AfterGenerate(t *testing.T) {
	srv := newFeedServer(t)
	env := writeConfig(t, "")
	dbPath := filepath.Join(env.dir, "data", "feedpress.db")
	body := fmt.Sprintf("archive:\n  enabled: true\n  path: %s\nfeeds:\n  - title: T\n    url: %s/rss\n", dbPath, srv.URL)
	require.NoError(t, os.WriteFile(env.configPath, []byte(fmt.Sprintf("output_dir: %s\nlog_level: error\n%s", env.outputDir, body)), 0o644))

	_, err := execute(t, "generate", "--config", env.configPath)
	require.NoError(t, err)

	out, err := execute(t, "history", "--config", env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "2 articles, 0 failed feeds, flat layout")

	m := runIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)

	out, err = execute(t, "history", m[1], "--config", env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "article-1.html")
	require.Contains(t, out, "Alpha")
	require.Contains(t, out, "http://x/2")
}

func TestHistory_ArchiveDisabled(t *testing.T) {
	env := writeConfig(t, "feeds:\n  - title: T\n    url: http://example.com/rss\n")

	_, err := execute(t, "history", "--config", env.configPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "archive is disabled")
}

func TestHistory_BadRunID(t *testing.T) {
	env := writeConfig(t, fmt.Sprintf("archive:\n  enabled: true\n  path: %s\nfeeds:\n  - title: T\n    url: http://example.com/rss\n", filepath.Join(t.TempDir(), "a.db")))

	_, err := execute(t, "history", "abc", "--config", env.configPath)
	require.Error(t, err)
}

func TestFeeds_Print(t *testing.T) {
	env := writeConfig(t, "feeds:\n  - title: Tech\n    url: http://example.com/tech.xml\n  - title: News\n    url: http://example.com/news.xml\n")

	out, err := execute(t, "feeds", "--config", env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "2 feeds")
	require.Contains(t, out, "http://example.com/tech.xml")
	require.Contains(t, out, "News")
}

func TestFeeds_ExportOPML(t *testing.T) {
	env := writeConfig(t, "feeds:\n  - title: Tech\n    url: http://example.com/tech.xml\n")
	target := filepath.Join(env.dir, "feeds.opml")

	out, err := execute(t, "feeds", "--config", env.configPath, "--export-opml", target)
	require.NoError(t, err)
	require.Contains(t, out, "Exported 1 feeds")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	doc, err := opml.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	sources := doc.Sources()
	require.Len(t, sources, 1)
	require.Equal(t, "http://example.com/tech.xml", sources[0].URL)
}

func TestFeeds_ExportOPMLStdout(t *testing.T) {
	env := writeConfig(t, "feeds:\n  - title: Tech\n    url: http://example.com/tech.xml\n")

	out, err := execute(t, "feeds", "--config", env.configPath, "--export-opml", "-")
	require.NoError(t, err)
	require.Contains(t, out, "<opml")
	require.Contains(t, out, `xmlUrl="http://example.com/tech.xml"`)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	srv := newFeedServer(t)
	env := writeConfig(t, fmt.Sprintf("watch:\n  interval: 1h\nfeeds:\n  - title: T\n    url: %s/rss\n", srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	root := cli.New(&out).RootCommand()
	root.SetArgs([]string{"watch", "--config", env.configPath})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(env.outputDir, "index.html"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
