package queue_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"fadebatch/internal/config"
	"fadebatch/internal/queue"
	"fadebatch/internal/testsupport"
)

func defaultAllow() queue.AllowList {
	return queue.NewAllowList(config.DefaultExtensions)
}

func paths(items []queue.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Path())
	}
	return out
}

func TestAddRejectsDisallowedExtension(t *testing.T) {
	q := queue.New(defaultAllow())
	for _, path := range []string{"/music/notes.txt", "/music/noext", "/music/cover.JPG"} {
		if q.Add(path) {
			t.Fatalf("Add(%q) = true, want false", path)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", q.Len())
	}
}

func TestAddIsCaseInsensitiveOnExtension(t *testing.T) {
	q := queue.New(defaultAllow())
	if !q.Add("/music/LOUD.WAV") {
		t.Fatal("expected upper-case extension to be accepted")
	}
}

func TestAddRejectsDuplicateFullPath(t *testing.T) {
	q := queue.New(defaultAllow())
	if !q.Add("/music/a.wav") {
		t.Fatal("first add should succeed")
	}
	if q.Add("/music/../music/./a.wav") {
		t.Fatal("equivalent path should be rejected")
	}
	if !q.Add("/other/a.wav") {
		t.Fatal("same name in another directory should be accepted")
	}
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
}

func TestAddResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	q := queue.New(defaultAllow())
	if !q.Add("a.wav") {
		t.Fatal("relative add should succeed")
	}
	if !q.Contains(filepath.Join(dir, "a.wav")) {
		t.Fatalf("expected absolute identity, got %v", paths(q.Active()))
	}
}

func TestAddManyPreservesArrivalOrder(t *testing.T) {
	q := queue.New(defaultAllow())
	added := q.AddMany([]string{"/m/c.mp3", "/m/skip.txt", "/m/a.wav", "/m/c.mp3", "/m/b.flac"})
	if added != 3 {
		t.Fatalf("AddMany = %d, want 3", added)
	}
	want := []string{"/m/c.mp3", "/m/a.wav", "/m/b.flac"}
	if got := paths(q.Active()); !slices.Equal(got, want) {
		t.Fatalf("Active() = %v, want %v", got, want)
	}
}

func TestRemoveIgnoresAbsentItems(t *testing.T) {
	q := queue.New(defaultAllow())
	q.AddMany([]string{"/m/a.wav", "/m/b.wav", "/m/c.wav"})

	removed := q.Remove("/m/b.wav", "/m/missing.wav")
	if removed != 1 {
		t.Fatalf("Remove = %d, want 1", removed)
	}
	want := []string{"/m/a.wav", "/m/c.wav"}
	if got := paths(q.Active()); !slices.Equal(got, want) {
		t.Fatalf("Active() = %v, want %v", got, want)
	}
}

func TestAnnotateAndClearOutcomes(t *testing.T) {
	q := queue.New(defaultAllow())
	q.Add("/m/a.wav")

	if !q.Annotate("/m/a.wav", queue.OpenFailed("a.wav")) {
		t.Fatal("Annotate should find queued path")
	}
	item := q.Active()[0]
	if item.Outcome.Kind != queue.OutcomeOpenFailed || item.LastError != "a.wav can not be opened." {
		t.Fatalf("unexpected annotated item %+v", item)
	}
	if q.Annotate("/m/missing.wav", queue.Succeeded()) {
		t.Fatal("Annotate should report missing path")
	}

	q.ClearOutcomes()
	item = q.Active()[0]
	if !item.Outcome.IsZero() || item.LastError != "" {
		t.Fatalf("expected cleared outcome, got %+v", item)
	}
}

func TestActiveReturnsSnapshot(t *testing.T) {
	q := queue.New(defaultAllow())
	q.Add("/m/a.wav")
	snapshot := q.Active()
	snapshot[0].FileName = "mutated.wav"
	if q.Active()[0].FileName != "a.wav" {
		t.Fatal("Active() should return a copy")
	}
}

func TestOutcomeMessages(t *testing.T) {
	tests := []struct {
		name    string
		outcome queue.Outcome
		want    string
		failed  bool
	}{
		{"success", queue.Succeeded(), "success", false},
		{"open", queue.OpenFailed("a.wav"), "a.wav can not be opened.", true},
		{"fade in", queue.FadeInTooLong(240000, 144000), "The fade in time(240000) is longer than total time(144000).", true},
		{"fade out", queue.FadeOutTooLong(10, 5), "The fade out time(10) is longer than total time(5).", true},
		{"effect", queue.EffectFailed("fail"), "error code(fail).", true},
		{"host", queue.HostException("boom"), "boom", true},
		{"none", queue.Outcome{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.outcome.Failed(); got != tt.failed {
				t.Fatalf("Failed() = %v, want %v", got, tt.failed)
			}
		})
	}
}

func TestAllowListNormalizes(t *testing.T) {
	allow := queue.NewAllowList([]string{".WAV", "mp3", "wav", " "})
	if got := allow.Extensions(); !slices.Equal(got, []string{"wav", "mp3"}) {
		t.Fatalf("Extensions() = %v", got)
	}
	if !allow.Allows("/x/Y.Wav") {
		t.Fatal("expected wav to be allowed")
	}
	if allow.Allows("/x/y.ogg") {
		t.Fatal("expected ogg to be rejected")
	}
}

func TestScanFolderTopLevelOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.wav", "notes.txt", "sub/c.wav"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 16)
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.wav"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := queue.ScanFolder(dir, defaultAllow())
	if err != nil {
		t.Fatalf("ScanFolder returned error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.wav"), filepath.Join(dir, "b.mp3")}
	if !slices.Equal(got, want) {
		t.Fatalf("ScanFolder = %v, want %v", got, want)
	}
}

func TestScanFolderMissingDirectory(t *testing.T) {
	if _, err := queue.ScanFolder(filepath.Join(t.TempDir(), "missing"), defaultAllow()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
