package selector

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/rdwr-valentineg/sysdiag-battery/internal/csvdoc"
)

type fixtureEntry struct {
	name    string
	content string
}

// writeArchive writes a gzip-compressed USTAR archive to a temp file and
// returns its path.
func writeArchive(t *testing.T, entries []fixtureEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sysdiagnose.tar.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gzw := gzip.NewWriter(f)
	tw := tar.NewWriter(gzw)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     0644,
			Size:     int64(len(e.content)),
			ModTime:  time.Unix(1700000000, 0),
			Typeflag: tar.TypeReg,
			Format:   tar.FormatUSTAR,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(e.content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(path string) Config {
	return Config{
		ArchivePath: path,
		TargetDir:   DefaultTargetDir,
		Prefix:      DefaultPrefix,
		TimeColumn:  DefaultTimeColumn,
		CycleColumn: DefaultCycleColumn,
	}
}

func TestFindLatestPicksNewestByEmbeddedDate(t *testing.T) {
	path := writeArchive(t, []fixtureEntry{
		{
			name:    "logs/BatteryBDC/BDC_Daily_version1_2023-01-01_00:00:00.csv",
			content: "TimeStamp,CycleCount\n2023-01-01,100\n",
		},
		{
			name:    "logs/BatteryBDC/BDC_Daily_version1_2023-06-01_00:00:00.csv",
			content: "TimeStamp,CycleCount\n2023-06-01,412\n",
		},
		{
			name:    "logs/BatteryBDC/other.csv",
			content: "TimeStamp,CycleCount\n2099-01-01,999\n",
		},
	})

	report, err := FindLatest(testConfig(path))
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if report.CycleCount != "412" {
		t.Errorf("CycleCount = %q, want 412", report.CycleCount)
	}
	if report.TimeStamp != "2023-06-01" {
		t.Errorf("TimeStamp = %q, want 2023-06-01", report.TimeStamp)
	}
	if report.Filename != "BDC_Daily_version1_2023-06-01_00:00:00.csv" {
		t.Errorf("Filename = %q", report.Filename)
	}
}

func TestFindLatestArchiveOrderDoesNotMatter(t *testing.T) {
	// Newest entry first in archive order; selection must go by the
	// embedded date, not by position.
	path := writeArchive(t, []fixtureEntry{
		{
			name:    "logs/BatteryBDC/BDC_Daily_version2_2024-05-20_12:00:00.csv",
			content: "TimeStamp,CycleCount\n2024-05-20,700\n",
		},
		{
			name:    "logs/BatteryBDC/BDC_Daily_version2_2024-02-02_12:00:00.csv",
			content: "TimeStamp,CycleCount\n2024-02-02,650\n",
		},
	})

	report, err := FindLatest(testConfig(path))
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if report.CycleCount != "700" {
		t.Errorf("CycleCount = %q, want 700", report.CycleCount)
	}
}

func TestFindLatestUsesLastDataRow(t *testing.T) {
	path := writeArchive(t, []fixtureEntry{
		{
			name:    "logs/BatteryBDC/BDC_Daily_version1_2023-06-01_00:00:00.csv",
			content: "TimeStamp,CycleCount\n2023-05-30,410\n2023-05-31,411\n2023-06-01,412\n",
		},
	})

	report, err := FindLatest(testConfig(path))
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if report.CycleCount != "412" || report.TimeStamp != "2023-06-01" {
		t.Errorf("got (%q, %q), want (412, 2023-06-01)", report.CycleCount, report.TimeStamp)
	}
}

func TestFindLatestNoMatch(t *testing.T) {
	path := writeArchive(t, []fixtureEntry{
		{name: "logs/BatteryBDC/other.csv", content: "TimeStamp,CycleCount\nx,1\n"},
		{name: "logs/unrelated/BDC_Daily_version1_2023-01-01_00:00:00.csv", content: "x"},
	})

	_, err := FindLatest(testConfig(path))
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("FindLatest error = %v, want ErrNoMatch", err)
	}
}

func TestFindLatestSkipsUnparsableDates(t *testing.T) {
	path := writeArchive(t, []fixtureEntry{
		{
			name:    "logs/BatteryBDC/BDC_Daily_version1_notadate.csv",
			content: "TimeStamp,CycleCount\nbad,0\n",
		},
		{
			name:    "logs/BatteryBDC/BDC_Daily_version1_2023-03-03_03:03:03.csv",
			content: "TimeStamp,CycleCount\n2023-03-03,300\n",
		},
	})

	report, err := FindLatest(testConfig(path))
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if report.CycleCount != "300" {
		t.Errorf("CycleCount = %q, want 300", report.CycleCount)
	}
}

func TestFindLatestMissingColumn(t *testing.T) {
	path := writeArchive(t, []fixtureEntry{
		{
			name:    "logs/BatteryBDC/BDC_Daily_version1_2023-06-01_00:00:00.csv",
			content: "TimeStamp,SomethingElse\n2023-06-01,412\n",
		},
	})

	_, err := FindLatest(testConfig(path))
	if !errors.Is(err, csvdoc.ErrColumnNotFound) {
		t.Errorf("FindLatest error = %v, want ErrColumnNotFound", err)
	}
}

func TestFindLatestCannotOpenArchive(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.tar.gz"))
	if _, err := FindLatest(cfg); err == nil {
		t.Error("expected an error for a missing archive")
	}
}

func TestFindLatestIdempotent(t *testing.T) {
	path := writeArchive(t, []fixtureEntry{
		{
			name:    "logs/BatteryBDC/BDC_Daily_version1_2023-06-01_00:00:00.csv",
			content: "TimeStamp,CycleCount\n2023-06-01,412\n",
		},
	})
	cfg := testConfig(path)

	first, err := FindLatest(cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := FindLatest(cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if *first != *second {
		t.Errorf("runs differ: %+v vs %+v", first, second)
	}
}

func TestMatchExact(t *testing.T) {
	m := MatchExact("target.csv")
	if !m("target.csv") {
		t.Error("exact name should match")
	}
	if m("other.csv") || m("target.csv.bak") {
		t.Error("non-exact names should not match")
	}
}

func TestMatchExtension(t *testing.T) {
	m := MatchExtension(".csv")
	if !m("daily.csv") || !m("DAILY.CSV") {
		t.Error("extension match should be case-insensitive")
	}
	if m("daily.txt") || m("noextension") {
		t.Error("other names should not match")
	}
}
