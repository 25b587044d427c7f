package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRepositoryQueriesAreMarked(t *testing.T) {
	violations, err := lintPaths([]string{filepath.Join("..", "..", "sqlinline")})
	if err != nil {
		t.Fatalf("lintPaths: %v", err)
	}
	if len(violations) > 0 {
		var b strings.Builder
		report(&b, violations)
		t.Fatal(b.String())
	}
}

func TestLintFindsProblems(t *testing.T) {
	dir := t.TempDir()
	src := "package q\n\n" +
		"const QOk = `--sql 11111111-2222-4333-8444-555555555555\nselect 1;`\n\n" +
		"const QDup = `--sql 11111111-2222-4333-8444-555555555555\nselect 2;`\n\n" +
		"const QBare = `select 3;`\n\n" +
		"const Greeting = \"hello\"\n"
	path := filepath.Join(dir, "q.go")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	violations, err := lintPaths([]string{dir})
	if err != nil {
		t.Fatalf("lintPaths: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(violations), violations)
	}
	if violations[0].name != "QDup" || !strings.Contains(violations[0].message, "already used") {
		t.Fatalf("first violation = %+v", violations[0])
	}
	if violations[1].name != "QBare" || !strings.Contains(violations[1].message, "missing") {
		t.Fatalf("second violation = %+v", violations[1])
	}
}
