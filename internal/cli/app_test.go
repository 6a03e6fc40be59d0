package cli

// Test Plan for app:
// - newApp refuses a configuration without a work directory
// - installations resolves decompile folders through the build data history,
//   skipping "latest" and reporting unknown identifiers
// - runSearch prints one block per version, with NO MATCHES where nothing matched
// - runSearch honors the table layout
// - listVersions prints installed versions and the ones still downloadable
// - runExtract reports signatures, missing packages and non-classes

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvp-joe/sigscan/internal/config"
	"github.com/mvp-joe/sigscan/internal/git"
	"github.com/mvp-joe/sigscan/internal/search"
	"github.com/mvp-joe/sigscan/internal/versions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hashOld     = "1111111111111111111111111111111111111111"
	hashNew     = "2222222222222222222222222222222222222222"
	hashLatest  = "3333333333333333333333333333333333333333"
	entitySrc   = "package net.minecraft.server;\n\npublic class Entity {\n   private int id;\n   public Entity() {}\n}\n"
	playerSrc   = "package net.minecraft.server;\n\npublic class EntityPlayer {\n   public String name;\n   public EntityPlayer() {}\n}\n"
	infoOld     = `{"minecraftVersion": "1.14.4"}`
	infoNew     = `{"minecraftVersion": "1.15.2"}`
	infoLatest  = `{"minecraftVersion": "1.16.1"}`
	spacerWidth = 20
)

type fixture struct {
	cfg     *config.Config
	ops     *git.MockGitOps
	workDir string
	oldDir  string
	newDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ops := git.NewMockGitOps()
	ops.AddCommit(hashLatest, "Update to 1.16.1", map[string][]byte{"info.json": []byte(infoLatest)})
	ops.AddCommit(hashNew, "Update to 1.15.2", map[string][]byte{"info.json": []byte(infoNew)})
	ops.AddCommit(hashOld, "Update to 1.14.4", map[string][]byte{"info.json": []byte(infoOld)})

	workDir := t.TempDir()
	oldDir := filepath.Join(workDir, "decompile-"+versions.Identifier(hashOld, 24))
	newDir := filepath.Join(workDir, "decompile-"+versions.Identifier(hashNew, 24))

	writeSource(t, filepath.Join(oldDir, "net", "minecraft", "server", "Entity.java"), entitySrc)
	writeSource(t, filepath.Join(oldDir, "net", "minecraft", "server", "EntityPlayer.java"), playerSrc)
	writeSource(t, filepath.Join(newDir, "net", "minecraft", "server", "Entity.java"), entitySrc)
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "decompile-latest"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "decompile-deadbeef"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "BuildTools.log.txt"), []byte("log"), 0644))

	cfg := config.Default()
	cfg.BuildTools.WorkDir = workDir
	cfg.Versions.ClonePath = filepath.Join(t.TempDir(), "builddata")
	cfg.Search.SpacerWidth = spacerWidth
	cfg.Search.Workers = 2

	return &fixture{cfg: cfg, ops: ops, workDir: workDir, oldDir: oldDir, newDir: newDir}
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fixture) app(t *testing.T, out io.Writer) *app {
	t.Helper()
	a, err := newApp(f.cfg, f.ops, out, nil, quietLogger())
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

func TestNewApp_RequiresWorkDir(t *testing.T) {
	t.Parallel()

	_, err := newApp(config.Default(), git.NewMockGitOps(), io.Discard, nil, quietLogger())

	assert.ErrorIs(t, err, config.ErrEmptyWorkDir)
}

func TestApp_Installations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.app(t, io.Discard)

	installs, unresolved, err := a.installations(context.Background())

	require.NoError(t, err)
	require.Len(t, installs, 2)
	assert.Equal(t, "1.14.4", installs[0].Label)
	assert.Equal(t, f.oldDir, installs[0].Path)
	assert.Equal(t, "1.15.2", installs[1].Label)
	assert.Equal(t, f.newDir, installs[1].Path)
	assert.Equal(t, []string{"deadbeef"}, unresolved)
	assert.Equal(t, 1, f.ops.CloneCalls)
	assert.Equal(t, 1, f.ops.LogCalls)
}

func TestApp_RunSearchBlocks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var out bytes.Buffer
	a := f.app(t, &out)
	ctx := context.Background()

	installs, _, err := a.installations(ctx)
	require.NoError(t, err)

	require.NoError(t, a.runSearch(ctx, installs, []string{"Player"}))

	expected := strings.Join([]string{
		"1.14.4 -------------",
		"net.minecraft.server.EntityPlayer -> String",
		"  at " + filepath.Join(f.oldDir, "net", "minecraft", "server", "EntityPlayer.java"),
		"1.15.2 NO MATCHES---",
		"",
	}, "\n")
	assert.Equal(t, expected, out.String())
}

func TestApp_RunSearchTable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cfg.Search.Layout = "table"
	var out bytes.Buffer
	a := f.app(t, &out)
	ctx := context.Background()

	installs, _, err := a.installations(ctx)
	require.NoError(t, err)

	require.NoError(t, a.runSearch(ctx, installs, []string{"entity"}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "VERSION"))
	assert.Contains(t, lines[1], "Entity ")
	assert.Contains(t, lines[1], "int")
	assert.Contains(t, lines[2], "EntityPlayer")
	assert.True(t, strings.HasPrefix(lines[3], "1.15.2"))
}

func TestApp_RunSearchNoTerms(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.app(t, io.Discard)

	err := a.runSearch(context.Background(), nil, []string{"  "})

	assert.ErrorIs(t, err, search.ErrNoTerms)
}

func TestApp_ListVersions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var out bytes.Buffer
	a := f.app(t, &out)
	ctx := context.Background()

	installs, _, err := a.installations(ctx)
	require.NoError(t, err)

	require.NoError(t, a.listVersions(ctx, installs))

	output := out.String()
	assert.Contains(t, output, "1.14.4       "+f.oldDir)
	assert.Contains(t, output, "1.15.2       "+f.newDir)
	assert.Contains(t, output, "You could still download: 1.16.1")
}

func TestApp_ListVersionsEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var out bytes.Buffer
	a := f.app(t, &out)

	require.NoError(t, a.listVersions(context.Background(), nil))

	assert.Contains(t, out.String(), "There are no versions available yet")
	assert.Contains(t, out.String(), "You could still download: 1.14.4, 1.15.2, 1.16.1")
}

func TestRunExtract(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	class := filepath.Join(dir, "Entity.java")
	noPackage := filepath.Join(dir, "Loose.java")
	iface := filepath.Join(dir, "Tickable.java")
	writeSource(t, class, entitySrc)
	writeSource(t, noPackage, "public class Loose {\n}\n")
	writeSource(t, iface, "package a;\npublic interface Tickable {\n}\n")

	var out bytes.Buffer
	require.NoError(t, runExtract(&out, class))
	require.NoError(t, runExtract(&out, noPackage))
	require.NoError(t, runExtract(&out, iface))

	expected := strings.Join([]string{
		"net.minecraft.server.Entity -> int",
		"  at " + class,
		noPackage + ": no package declaration",
		iface + ": not a class",
		"",
	}, "\n")
	assert.Equal(t, expected, out.String())

	assert.Error(t, runExtract(&out, filepath.Join(dir, "Missing.java")))
}
