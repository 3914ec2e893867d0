package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fadebatch/internal/queue"
	"fadebatch/internal/testsupport"
)

func TestQueueAddListRemoveClear(t *testing.T) {
	env := setupCLITestEnv(t, map[string]float64{"a.wav": 3, "b.mp3": 20})
	notes := filepath.Join(env.mediaDir, "notes.txt")
	testsupport.WriteFile(t, notes, 8)

	out := mustRunCLI(t, env.configPath, "queue", "add",
		env.media("a.wav"), env.media("b.mp3"), notes, env.media("missing.wav"))
	requireContains(t, out, "Added 2 file(s), skipped 2 (queue has 2)")
	requireContains(t, out, `extension "txt" is not allowed`)
	requireContains(t, out, "file does not exist")

	out = mustRunCLI(t, env.configPath, "queue", "add", env.media("a.wav"))
	requireContains(t, out, "already queued")

	out = mustRunCLI(t, env.configPath, "queue", "list")
	requireContains(t, out, "a.wav")
	requireContains(t, out, "b.mp3")

	items := decodeJSON[[]queueItemJSON](t, mustRunCLI(t, env.configPath, "queue", "list", "--json"))
	if len(items) != 2 || items[0].FileName != "a.wav" || items[1].FileName != "b.mp3" {
		t.Fatalf("unexpected queue %+v", items)
	}

	out = mustRunCLI(t, env.configPath, "queue", "remove", "1")
	requireContains(t, out, "Removed 1 file(s) (queue has 1)")

	items = decodeJSON[[]queueItemJSON](t, mustRunCLI(t, env.configPath, "queue", "list", "--json"))
	if len(items) != 1 || items[0].Path != env.media("b.mp3") {
		t.Fatalf("unexpected queue after remove %+v", items)
	}

	if _, _, err := runCLI(t, env.configPath, "queue", "remove", "5"); err == nil {
		t.Fatal("expected out-of-range index to fail")
	}

	out = mustRunCLI(t, env.configPath, "queue", "remove", env.media("b.mp3"))
	requireContains(t, out, "Removed 1 file(s) (queue has 0)")

	mustRunCLI(t, env.configPath, "queue", "add", env.media("a.wav"))
	out = mustRunCLI(t, env.configPath, "queue", "clear")
	requireContains(t, out, "Cleared 1 file(s)")

	out = mustRunCLI(t, env.configPath, "queue", "list")
	requireContains(t, out, "Queue is empty")
}

func TestQueueAddFolderSkipsSubdirectoriesAndOtherExtensions(t *testing.T) {
	env := setupCLITestEnv(t, map[string]float64{"b.wav": 2, "a.flac": 2})
	testsupport.WriteFile(t, filepath.Join(env.mediaDir, "cover.jpg"), 8)
	testsupport.WriteFile(t, filepath.Join(env.mediaDir, "nested", "c.wav"), 8)

	out := mustRunCLI(t, env.configPath, "queue", "add-folder", env.mediaDir)
	requireContains(t, out, "Added 2 of 2 matching file(s)")

	items := decodeJSON[[]queueItemJSON](t, mustRunCLI(t, env.configPath, "queue", "list", "--json"))
	if len(items) != 2 || items[0].FileName != "a.flac" || items[1].FileName != "b.wav" {
		t.Fatalf("unexpected queue %+v", items)
	}

	out = mustRunCLI(t, env.configPath, "queue", "add-folder", env.mediaDir)
	requireContains(t, out, "Added 0 of 2 matching file(s)")

	if _, _, err := runCLI(t, env.configPath, "queue", "add-folder", filepath.Join(env.baseDir, "nope")); err == nil {
		t.Fatal("expected missing folder to fail")
	}
}

func TestResolveQueueTargets(t *testing.T) {
	dir := t.TempDir()
	items := []queue.Item{
		{FileName: "a.wav", Directory: dir},
		{FileName: "b.wav", Directory: dir},
	}

	got, err := resolveQueueTargets(items, []string{"2", filepath.Join(dir, "a.wav")})
	if err != nil {
		t.Fatalf("resolveQueueTargets returned error: %v", err)
	}
	if len(got) != 2 || got[0] != filepath.Join(dir, "b.wav") || got[1] != filepath.Join(dir, "a.wav") {
		t.Fatalf("unexpected targets %v", got)
	}

	for _, bad := range []string{"0", "3", "-1"} {
		if _, err := resolveQueueTargets(items, []string{bad}); err == nil {
			t.Fatalf("expected index %s to be rejected", bad)
		}
	}
}

func TestBuildQueueListRows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []queue.Item{
		{FileName: "a.wav", Directory: "/media", CreatedAt: now.Add(-2 * time.Hour)},
		{FileName: "b.wav", Directory: "/media", Outcome: queue.EffectFailed("fail")},
	}
	rows := buildQueueListRows(items, now)
	if rows[0][0] != "1" || rows[0][3] != "-" || rows[0][4] != "2 hours ago" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	if rows[1][3] != "error code(fail)." || rows[1][4] != "-" {
		t.Fatalf("unexpected second row %v", rows[1])
	}
}

func TestQueueCommandsRejectBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[fade]\nfade_in_seconds = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, path, "queue", "list"); err == nil {
		t.Fatal("expected invalid config to fail")
	}
}

func TestQueueListJSONKeepsPathsVerbatim(t *testing.T) {
	env := setupCLITestEnv(t, map[string]float64{"Rock & <Roll>.wav": 2})

	mustRunCLI(t, env.configPath, "queue", "add", env.media("Rock & <Roll>.wav"))
	out := mustRunCLI(t, env.configPath, "queue", "list", "--json")
	requireContains(t, out, `"file_name": "Rock & <Roll>.wav"`)

	items := decodeJSON[[]queueItemJSON](t, out)
	if len(items) != 1 || items[0].Path != env.media("Rock & <Roll>.wav") {
		t.Fatalf("unexpected queue %+v", items)
	}
}
