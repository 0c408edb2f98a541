package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"internal", InternalImportForbidden, "fopmanager/internal/core", true},
		{"internal root", InternalImportForbidden, "fopmanager/internal", true},
		{"internal pkg", InternalImportForbidden, "fopmanager/pkg/domain", false},
		{"infra", InfraImportForbidden, "fopmanager/internal/infra/blob/s3", true},
		{"infra blob facade", InfraImportForbidden, "fopmanager/internal/blob", false},
		{"driver pgx", StorageDriverForbidden, "github.com/jackc/pgx/v5/stdlib", true},
		{"driver sql", StorageDriverForbidden, "database/sql", true},
		{"driver sql/driver", StorageDriverForbidden, "database/sql/driver", true},
		{"driver aws", StorageDriverForbidden, "github.com/aws/aws-sdk-go-v2/service/s3", true},
		{"driver prefix only", StorageDriverForbidden, "modernc.org/sqlitex", false},
	}
	for _, c := range cases {
		if got := c.fn(c.in); got != c.want {
			t.Fatalf("%s: predicate(%q)=%v want %v", c.name, c.in, got, c.want)
		}
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("a.go", "package x\nimport (\n\t\"fmt\"\n\t\"fopmanager/internal/core\"\n)\nvar _ = fmt.Sprint\n")
	write("a_test.go", "package x\nimport _ \"fopmanager/internal/config\"\n")
	write("notes.txt", "import \"fopmanager/internal/config\"")

	viols, err := DirectImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || !strings.Contains(viols[0], "fopmanager/internal/core (in a.go)") {
		t.Fatalf("unexpected violations %v", viols)
	}
	if _, err := DirectImportViolations(filepath.Join(dir, "missing"), InternalImportForbidden); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestDirectImportViolationsParseError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.go"), []byte("package"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := DirectImportViolations(dir, InternalImportForbidden); err == nil {
		t.Fatalf("expected parse error")
	}
}
