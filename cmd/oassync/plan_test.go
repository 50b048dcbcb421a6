package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cliBaseSpec = `openapi: "3.0.0"
info:
  title: Test API
  version: "1.0.0"
paths:
  /pets:
    get:
      summary: List pets
      responses:
        "200":
          description: OK
`

const cliRevisedSpec = `openapi: "3.0.0"
info:
  title: Test API
  version: "1.1.0"
paths:
  /pets:
    get:
      summary: List all pets
      responses:
        "200":
          description: OK
`

func writeTempSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestHandlePlan(t *testing.T) {
	base := writeTempSpec(t, "base.yaml", cliBaseSpec)
	revised := writeTempSpec(t, "revised.yaml", cliRevisedSpec)

	if err := handlePlan([]string{base, revised}); err != nil {
		t.Fatalf("handlePlan() error = %v", err)
	}
}

func TestHandlePlanJSON(t *testing.T) {
	base := writeTempSpec(t, "base.yaml", cliBaseSpec)
	revised := writeTempSpec(t, "revised.yaml", cliRevisedSpec)

	if err := handlePlan([]string{"--format", "json", base, revised}); err != nil {
		t.Fatalf("handlePlan() error = %v", err)
	}
}

func TestHandlePlanErrors(t *testing.T) {
	base := writeTempSpec(t, "base.yaml", cliBaseSpec)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing arguments",
			args:    []string{base},
			wantErr: "requires a base and a revision",
		},
		{
			name:    "unknown format",
			args:    []string{"--format", "xml", base, base},
			wantErr: "unknown format",
		},
		{
			name:    "missing base file",
			args:    []string{filepath.Join(t.TempDir(), "nope.yaml"), base},
			wantErr: "fetching base document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handlePlan(tt.args)
			if err == nil {
				t.Fatal("handlePlan() expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("handlePlan() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
