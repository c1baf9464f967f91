package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eringen/kilobite"
	"github.com/eringen/kilobite/content"
)

func execute(t *testing.T, c *cli, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(c)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestInitCreatesLoadableSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "small-bites")
	var out bytes.Buffer
	require.NoError(t, runInit(dir, &out))
	require.Contains(t, out.String(), "Creating new Kilobite site")

	site, err := kilobite.LoadSite(filepath.Join(dir, kilobite.DefaultSiteFile))
	require.NoError(t, err)
	require.Equal(t, "Small Bites", site.Title())
	hero, ok := site.Hero()
	require.True(t, ok)
	require.Equal(t, "Hungry of learning?", *hero.Title)
	sub, ok := site.Subscribe()
	require.True(t, ok)
	require.Equal(t, "/subscribe/", sub.FormURL)

	coll, err := content.Load(filepath.Join(dir, "content"), content.LoadOptions{})
	require.NoError(t, err)
	require.Len(t, coll.Posts, 1)
	require.Equal(t, "hello-kilobite", coll.Posts[0].Slug)
	require.True(t, coll.Posts[0].Featured)
	require.Len(t, coll.Pages, 1)
	require.Len(t, coll.Projects, 1)

	require.FileExists(t, filepath.Join(dir, ".env.example"))
	require.FileExists(t, filepath.Join(dir, ".gitignore"))
	require.FileExists(t, filepath.Join(dir, "kilobite.yaml"))
	require.DirExists(t, filepath.Join(dir, "public"))
}

func TestInitRefusesNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), nil, 0o644))
	require.ErrorContains(t, runInit(dir, &bytes.Buffer{}), "not empty")
}

func TestToTitle(t *testing.T) {
	require.Equal(t, "My Blog", toTitle("my-blog"))
	require.Equal(t, "Small Bites", toTitle("small_bites"))
	require.Equal(t, "Kilobite", toTitle("kilobite"))
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, newCLI(), "version")
	require.NoError(t, err)
	require.Equal(t, "kilobite dev\n", out)
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "kilobite.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("url: https://file.test\ncontent: from-file\nadmin-password: secret\n"), 0o644))
	t.Setenv("KILOBITE_CONTENT", "from-env")
	t.Setenv("KILOBITE_SESSION_SECRET", "env-secret")

	c := newCLI()
	_, _, err := execute(t, c, "--config", cfgFile, "--url", "https://flag.test", "version")
	require.NoError(t, err)

	cfg := c.serverConfig()
	require.Equal(t, "https://flag.test", cfg.URL)
	require.Equal(t, "from-env", cfg.ContentDir)
	require.Equal(t, "secret", cfg.AdminPassword)
	require.Equal(t, "env-secret", cfg.SessionSecret)
	require.Equal(t, "public", cfg.StaticDir)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestMissingExplicitConfigFails(t *testing.T) {
	_, _, err := execute(t, newCLI(), "--config", filepath.Join(t.TempDir(), "nope.yaml"), "version")
	require.ErrorContains(t, err, "read config")
}

func TestCheckReportsFieldPaths(t *testing.T) {
	dir := t.TempDir()
	site := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(site, []byte("title: T\ndescription: D\npostsPerPage: 0\nheaderNavLinks:\n  - text: Home\n"), 0o644))

	_, stderr, err := execute(t, newCLI(), "check", "--site", site, "--content", filepath.Join(dir, "content"))
	require.ErrorIs(t, err, errCheckFailed)
	require.Contains(t, stderr, "postsPerPage")
	require.Contains(t, stderr, "headerNavLinks[0].href")
}

func TestCheckPassesOnScaffold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blog")
	require.NoError(t, runInit(dir, &bytes.Buffer{}))

	out, _, err := execute(t, newCLI(), "check",
		"--site", filepath.Join(dir, "site.yaml"),
		"--content", filepath.Join(dir, "content"))
	require.NoError(t, err)
	require.Contains(t, out, `site: "Blog" ok`)
	require.Contains(t, out, "content: 1 posts, 1 projects, 1 pages ok")
}

func TestBuildCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blog")
	require.NoError(t, runInit(dir, &bytes.Buffer{}))
	out := filepath.Join(dir, "dist")

	stdout, _, err := execute(t, newCLI(), "build",
		"--site", filepath.Join(dir, "site.yaml"),
		"--content", filepath.Join(dir, "content"),
		"--public", filepath.Join(dir, "public"),
		"--db", filepath.Join(dir, "data", "kilobite.db"),
		"--log-level", "error",
		"--out", out)
	require.NoError(t, err)
	require.Contains(t, stdout, "Built ")
	require.FileExists(t, filepath.Join(out, "index.html"))
	require.FileExists(t, filepath.Join(out, "blog", "hello-kilobite", "index.html"))
	require.FileExists(t, filepath.Join(out, "about", "index.html"))
	require.FileExists(t, filepath.Join(out, "feed.xml"))
}
