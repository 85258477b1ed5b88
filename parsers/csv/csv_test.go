package csv_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sevigo/chordgram/parsers/csv"
	"github.com/sevigo/chordgram/schema"
)

func newTestParser(opts ...csv.Option) *csv.CSVParser {
	return csv.New(slog.New(slog.NewTextHandler(os.Stdout, nil)), opts...)
}

func parseAll(t *testing.T, p *csv.CSVParser, content, path string) []schema.Record {
	t.Helper()
	var records []schema.Record
	err := p.Parse(context.Background(), strings.NewReader(content), path, func(r schema.Record) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	return records
}

func TestCSVParser_Name(t *testing.T) {
	parser := csv.NewCSVParser(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if got := parser.Name(); got != "csv" {
		t.Errorf("Name() = %v, want %v", got, "csv")
	}
}

func TestCSVParser_Extensions(t *testing.T) {
	parser := newTestParser()
	expected := []string{".csv", ".tsv"}
	got := parser.Extensions()

	if len(got) != len(expected) {
		t.Errorf("Extensions() returned %d extensions, want %d", len(got), len(expected))
	}

	for i, ext := range expected {
		if got[i] != ext {
			t.Errorf("Extensions()[%d] = %v, want %v", i, got[i], ext)
		}
	}
}

func TestCSVParser_CanHandle(t *testing.T) {
	parser := newTestParser()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"CSV file", "data.csv", true},
		{"TSV file", "data.tsv", true},
		{"CSV uppercase", "DATA.CSV", true},
		{"Text file", "data.txt", false},
		{"No extension", "data", false},
		{"Empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.CanHandle(tt.path, nil); got != tt.expected {
				t.Errorf("CanHandle(%s) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCSVParser_Parse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
		want    []string
		rows    []int
	}{
		{
			name:    "chords column",
			content: "id,chords,genre\n1,<verse_1> C G Am F,pop\n2,D A Bm G,rock\n",
			path:    "songs.csv",
			want:    []string{"<verse_1> C G Am F", "D A Bm G"},
			rows:    []int{1, 2},
		},
		{
			name:    "progression column",
			content: "title;progression\nfoo;C F G\nbar;Am Dm E\n",
			path:    "songs.csv",
			want:    []string{"C F G", "Am Dm E"},
			rows:    []int{1, 2},
		},
		{
			name:    "unknown header uses first column",
			content: "sequence,year\nC G Am,1999\n",
			path:    "songs.csv",
			want:    []string{"C G Am"},
			rows:    []int{1},
		},
		{
			name:    "no header",
			content: "C G Am F\nF G C\n",
			path:    "songs.csv",
			want:    []string{"C G Am F", "F G C"},
			rows:    []int{1, 2},
		},
		{
			name:    "tsv",
			content: "artist\tchords\nX\tC G\n",
			path:    "songs.tsv",
			want:    []string{"C G"},
			rows:    []int{1},
		},
		{
			name:    "quoted cells",
			content: "chords,title\n\"C G, Am\",\"a, b\"\n",
			path:    "songs.csv",
			want:    []string{"C G, Am"},
			rows:    []int{1},
		},
		{
			name:    "short row emits empty record",
			content: "id,chords\n1\n2,C G\n",
			path:    "songs.csv",
			want:    []string{"", "C G"},
			rows:    []int{1, 2},
		},
		{
			name:    "empty",
			content: "",
			path:    "songs.csv",
			want:    nil,
		},
		{
			name:    "header only",
			content: "chords\n",
			path:    "songs.csv",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := parseAll(t, newTestParser(), tt.content, tt.path)

			if len(records) != len(tt.want) {
				t.Fatalf("Parse() emitted %d records, want %d", len(records), len(tt.want))
			}
			for i, rec := range records {
				if rec.Raw != tt.want[i] {
					t.Errorf("record %d Raw = %q, want %q", i, rec.Raw, tt.want[i])
				}
				if rec.Row != tt.rows[i] {
					t.Errorf("record %d Row = %d, want %d", i, rec.Row, tt.rows[i])
				}
				if rec.Source != tt.path {
					t.Errorf("record %d Source = %q, want %q", i, rec.Source, tt.path)
				}
			}
		})
	}
}

func TestCSVParser_WithColumn(t *testing.T) {
	content := "chords,simplified\nCmaj7 G7,C G\n"

	records := parseAll(t, newTestParser(csv.WithColumn("Simplified")), content, "songs.csv")
	if len(records) != 1 || records[0].Raw != "C G" {
		t.Errorf("WithColumn picked %+v, want raw %q", records, "C G")
	}

	err := newTestParser(csv.WithColumn("missing")).Parse(context.Background(), strings.NewReader(content), "songs.csv", func(schema.Record) error { return nil })
	if !errors.Is(err, csv.ErrNoColumn) {
		t.Errorf("Parse() error = %v, want ErrNoColumn", err)
	}
}

func TestCSVParser_EmitErrorStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := newTestParser().Parse(context.Background(), strings.NewReader(generateCSV(10)), "songs.csv", func(schema.Record) error {
		calls++
		if calls == 3 {
			return stop
		}
		return nil
	})

	if !errors.Is(err, stop) {
		t.Errorf("Parse() error = %v, want %v", err, stop)
	}
	if calls != 3 {
		t.Errorf("emit called %d times, want 3", calls)
	}
}

func TestCSVParser_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestParser().Parse(ctx, strings.NewReader(generateCSV(5)), "songs.csv", func(schema.Record) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Parse() error = %v, want context.Canceled", err)
	}
}

func TestCSVParser_LargeFileStreams(t *testing.T) {
	records := parseAll(t, newTestParser(), generateCSV(2500), "big.csv")
	if len(records) != 2500 {
		t.Fatalf("Parse() emitted %d records, want 2500", len(records))
	}
	if records[2499].Row != 2500 {
		t.Errorf("last Row = %d, want 2500", records[2499].Row)
	}
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestCSVParser_ReadErrorAborts(t *testing.T) {
	diskErr := errors.New("disk gone")
	content := generateCSV(2000)
	if len(content) <= 4096 {
		t.Fatalf("test corpus too small: %d bytes", len(content))
	}
	r := io.MultiReader(strings.NewReader(content), failingReader{err: diskErr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	calls := 0
	err := newTestParser().Parse(ctx, r, "songs.csv", func(schema.Record) error {
		calls++
		return nil
	})

	if !errors.Is(err, diskErr) {
		t.Fatalf("Parse() error = %v, want %v", err, diskErr)
	}
	if calls != 2000 {
		t.Errorf("emit called %d times, want 2000", calls)
	}
}

func generateCSV(rows int) string {
	var sb strings.Builder
	sb.WriteString("id,chords\n")
	for i := 1; i <= rows; i++ {
		sb.WriteString(fmt.Sprintf("%d,C G Am F\n", i))
	}
	return sb.String()
}
