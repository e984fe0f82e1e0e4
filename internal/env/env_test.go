package env

import (
	"os"
	"path/filepath"
	"testing"
)

// writeEnvFile writes content to a .env file in a temp dir and returns its path.
func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	return path
}

func TestLoad_FileOnly(t *testing.T) {
	path := writeEnvFile(t, "GOOGLE_API_KEY=from-file\nGEM_MODEL=gemini-1.5-pro\n")

	lookup, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, ok := lookup("GOOGLE_API_KEY"); !ok || got != "from-file" {
		t.Errorf("lookup(GOOGLE_API_KEY) = %q, %v, want %q, true", got, ok, "from-file")
	}
	if got, ok := lookup("GEM_MODEL"); !ok || got != "gemini-1.5-pro" {
		t.Errorf("lookup(GEM_MODEL) = %q, %v, want %q, true", got, ok, "gemini-1.5-pro")
	}
	if _, ok := lookup("GEM_UNSET_VARIABLE"); ok {
		t.Error("lookup(GEM_UNSET_VARIABLE) reported present, want absent")
	}
}

func TestLoad_ProcessWinsOnCollision(t *testing.T) {
	path := writeEnvFile(t, "GEM_COLLIDE=from-file\n")
	t.Setenv("GEM_COLLIDE", "from-process")

	lookup, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, _ := lookup("GEM_COLLIDE"); got != "from-process" {
		t.Errorf("lookup(GEM_COLLIDE) = %q, want %q", got, "from-process")
	}
}

func TestLoad_EmptyProcessValueShadowsFile(t *testing.T) {
	path := writeEnvFile(t, "GEM_SHADOW=from-file\n")
	t.Setenv("GEM_SHADOW", "")

	lookup, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// A set-but-empty process variable still takes precedence; callers treat
	// the empty value as unset rather than falling back to the file.
	got, ok := lookup("GEM_SHADOW")
	if !ok {
		t.Fatal("lookup(GEM_SHADOW) reported absent, want present")
	}
	if got != "" {
		t.Errorf("lookup(GEM_SHADOW) = %q, want empty", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such.env")
	t.Setenv("GEM_PRESENT", "yes")

	lookup, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with missing file error = %v, want nil", err)
	}

	if got, _ := lookup("GEM_PRESENT"); got != "yes" {
		t.Errorf("lookup(GEM_PRESENT) = %q, want %q", got, "yes")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeEnvFile(t, "this line has no separator\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() with malformed file returned nil error")
	}
}

func TestLoad_QuotedValues(t *testing.T) {
	path := writeEnvFile(t, "GEM_SYSTEM=\"Be concise.\"\n# a comment\n")

	lookup, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, _ := lookup("GEM_SYSTEM"); got != "Be concise." {
		t.Errorf("lookup(GEM_SYSTEM) = %q, want %q", got, "Be concise.")
	}
}

func TestMap(t *testing.T) {
	lookup := Map(map[string]string{"GOOGLE_API_KEY": "k"})

	if got, ok := lookup("GOOGLE_API_KEY"); !ok || got != "k" {
		t.Errorf("lookup(GOOGLE_API_KEY) = %q, %v, want %q, true", got, ok, "k")
	}
	if _, ok := lookup("GEM_MODEL"); ok {
		t.Error("lookup(GEM_MODEL) reported present, want absent")
	}
}

func TestProcess(t *testing.T) {
	t.Setenv("GEM_PROCESS_TEST", "v")

	lookup := Process()
	if got, ok := lookup("GEM_PROCESS_TEST"); !ok || got != "v" {
		t.Errorf("lookup(GEM_PROCESS_TEST) = %q, %v, want %q, true", got, ok, "v")
	}
}
