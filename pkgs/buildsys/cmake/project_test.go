package cmake

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProject(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"CMakeLists.txt": `cmake_minimum_required(VERSION 3.10)
project(hello C)
add_library(hello STATIC hello.c)
install(TARGETS hello ARCHIVE DESTINATION lib)
`,
		"hello.c": "int hello(void) { return 42; }\n",
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}
