package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sakif/snippet-share/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByCreator(t *testing.T) {
	all := []model.Snippet{
		{Title: "a", Creator: "bob"},
		{Title: "b", Creator: "alice"},
		{Title: "c", Creator: "bob"},
	}

	assert.Len(t, filterByCreator(all, ""), 3)

	got := filterByCreator(all, "bob")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
}

func TestPrintUsers(t *testing.T) {
	var buf bytes.Buffer
	admins := func(name string) bool { return name == "bob" }
	err := printUsers(&buf, []model.User{{ID: "u1", Username: "bob", CreatedAt: time.Unix(0, 0).UTC()}}, admins)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "USERNAME")
	assert.Contains(t, lines[1], "bob")
	assert.Contains(t, lines[1], "true")
	assert.NotContains(t, buf.String(), "$2a$", "password hashes must never be printed")
}

func TestSnippetsList_SQLite(t *testing.T) {
	t.Setenv("SNIPPETS_STORE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "ctl.db"))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"snippets", "list"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "TITLE")
}

func TestIndexesEnsure_RejectsSQLite(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--store", "sqlite", "indexes", "ensure"})

	assert.Error(t, cmd.Execute())
}
