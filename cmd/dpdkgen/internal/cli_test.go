package internal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/goplus/dpdkgen/internal/build"
	"github.com/goplus/dpdkgen/internal/pipeline"
	"github.com/goplus/dpdkgen/internal/registry"
)

const unformattedMap = `eal {
function:
rte_eal_init; rte_eal_cleanup;
type:
rte_lcore_state_t
};
power{
function:
rte_power_init
};
`

const canonicalMap = `eal {
function:
rte_eal_init;
rte_eal_cleanup;

type:
rte_lcore_state_t;
};

power {
function:
rte_power_init;
};
`

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() {
		workDir, configFile, mapWrite = ".", "", false
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "-C", dir))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMapFmt(t *testing.T) {
	dir := t.TempDir()
	mapFile := filepath.Join(dir, "dpdk.map")
	writeFile(t, mapFile, unformattedMap)

	out, err := execute(t, dir, "map", "fmt")
	if err != nil {
		t.Fatalf("map fmt failed: %v", err)
	}
	if out != canonicalMap {
		t.Errorf("map fmt output:\n%s\nwant:\n%s", out, canonicalMap)
	}

	if _, err := execute(t, dir, "map", "fmt", "-w"); err != nil {
		t.Fatalf("map fmt -w failed: %v", err)
	}
	data, err := os.ReadFile(mapFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != canonicalMap {
		t.Errorf("rewritten map:\n%s\nwant:\n%s", data, canonicalMap)
	}
}

func TestMapCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dpdk.map"), unformattedMap)
	writeFile(t, filepath.Join(dir, "dpdkgen.yaml"), `modules:
  - name: eal
    libs: [eal]
  - name: power
    libs: [power]
`)

	out, err := execute(t, dir, "map", "check")
	if err != nil {
		t.Fatalf("map check failed: %v", err)
	}
	want := "  eal        2 functions, 0 vars, 1 types\n" +
		"  power      1 functions, 0 vars, 0 types\n"
	if out != want {
		t.Errorf("map check output = %q, want %q", out, want)
	}
}

func TestMapCheckMissingDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dpdk.map"), unformattedMap)

	// the default modules need descriptors this map does not have
	_, err := execute(t, dir, "map", "check")
	var missing *registry.MissingDescriptorError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDescriptorError, got %v", err)
	}
	if missing.Descriptor != "lcore" {
		t.Errorf("missing descriptor = %q, want lcore", missing.Descriptor)
	}
}

func TestPrintStatus(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printStatus(&buf, &build.Status{
		Stages: []build.StageStatus{
			{Name: "download", Done: true},
			{Name: "configure"},
		},
	})
	want := "Stages:\n  download   done\n  configure  pending\n\nNo completed run recorded.\n"
	if buf.String() != want {
		t.Errorf("printStatus() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	printStatus(&buf, &build.Status{Record: &build.Record{
		Dependency: "dpdk",
		Version:    "23.11.1",
		Modules:    []string{"eal", "power"},
		BuildTime:  time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC),
	}})
	want = "Stages:\n\nLast run:\n" +
		"  dependency dpdk 23.11.1\n" +
		"  modules    eal, power\n" +
		"  built at   2026-10-19T08:30:00Z\n"
	if buf.String() != want {
		t.Errorf("printStatus() = %q, want %q", buf.String(), want)
	}
}

func TestPrintReport(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printReport(&buf, &pipeline.Report{Skipped: []string{"download"}, Ran: []string{"configure"}})
	want := "  download   up to date\n  configure  done\n"
	if buf.String() != want {
		t.Errorf("printReport() = %q, want %q", buf.String(), want)
	}
}
