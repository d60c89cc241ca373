package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestClient(t *testing.T) *LocalClient {
	t.Helper()
	client, err := NewLocalClient(filepath.Join(t.TempDir(), "output"))
	if err != nil {
		t.Fatalf("Failed to create LocalClient: %v", err)
	}
	return client
}

func TestNewLocalClient(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "output")

	client, err := NewLocalClient(baseDir)
	if err != nil {
		t.Fatalf("Failed to create LocalClient: %v", err)
	}
	defer client.Close()

	if client.BaseDir() != baseDir {
		t.Errorf("Expected base dir '%s', got '%s'", baseDir, client.BaseDir())
	}

	// Verify base directory was created
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		t.Error("Base directory was not created")
	}
}

func TestLocalClient_Close(t *testing.T) {
	client := newTestClient(t)

	if err := client.Close(); err != nil {
		t.Errorf("Close() returned unexpected error: %v", err)
	}
}

func TestLocalClient_StoreFile(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()

	tests := []struct {
		name     string
		filePath string
		fileData []byte
		wantErr  bool
	}{
		{
			name:     "simple file",
			filePath: "panel.png",
			fileData: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, // PNG header
			wantErr:  false,
		},
		{
			name:     "file in cycle folder",
			filePath: "KSKA/2025-08-26_19-58-00/weather.html",
			fileData: []byte("<html><body>KSKA</body></html>"),
			wantErr:  false,
		},
		{
			name:     "empty file",
			filePath: "current/empty.txt",
			fileData: []byte{},
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.StoreFile(ctx, tt.filePath, tt.fileData)
			if (err != nil) != tt.wantErr {
				t.Errorf("StoreFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				data, err := os.ReadFile(filepath.Join(client.BaseDir(), tt.filePath))
				if err != nil {
					t.Errorf("Failed to read stored file: %v", err)
					return
				}
				if string(data) != string(tt.fileData) {
					t.Errorf("File content mismatch for %s", tt.filePath)
				}
			}
		})
	}
}

func TestLocalClient_GetFile(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()

	if err := client.StoreFile(ctx, "KSKA/2025-08-26_19-58-00/snapshot.json", []byte(`{"station_id":"KSKA"}`)); err != nil {
		t.Fatalf("Failed to store test file: %v", err)
	}

	data, err := client.GetFile(ctx, "KSKA/2025-08-26_19-58-00/snapshot.json")
	if err != nil {
		t.Fatalf("GetFile() failed: %v", err)
	}
	if string(data) != `{"station_id":"KSKA"}` {
		t.Errorf("Unexpected file content: %s", data)
	}

	if _, err := client.GetFile(ctx, "nonexistent.json"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLocalClient_FileExists(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()

	if err := client.StoreFile(ctx, "current/weather.html", []byte("page")); err != nil {
		t.Fatalf("Failed to store test file: %v", err)
	}

	tests := []struct {
		name       string
		filePath   string
		wantExists bool
	}{
		{
			name:       "existing file",
			filePath:   "current/weather.html",
			wantExists: true,
		},
		{
			name:       "non-existent file",
			filePath:   "current/weather.png",
			wantExists: false,
		},
		{
			name:       "nested non-existent file",
			filePath:   "KSKA/deep/nonexistent.png",
			wantExists: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := client.FileExists(ctx, tt.filePath)
			if err != nil {
				t.Errorf("FileExists() error = %v", err)
				return
			}
			if exists != tt.wantExists {
				t.Errorf("FileExists() = %v, want %v", exists, tt.wantExists)
			}
		})
	}
}

func TestLocalClient_ListDir(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()

	testFiles := []string{
		"KSKA/2025-08-26_19-58-00/weather.html",
		"KSKA/2025-08-26_19-58-00/weather.png",
		"KSKA/2025-08-26_20-03-00/weather.html",
		"current/weather.html",
	}
	for _, filePath := range testFiles {
		if err := client.StoreFile(ctx, filePath, []byte("test content")); err != nil {
			t.Fatalf("Failed to store test file %s: %v", filePath, err)
		}
	}

	files, err := client.ListDir(ctx, "KSKA/2025-08-26_19-58-00", false)
	if err != nil {
		t.Fatalf("ListDir() failed: %v", err)
	}
	want := []string{
		"KSKA/2025-08-26_19-58-00/weather.html",
		"KSKA/2025-08-26_19-58-00/weather.png",
	}
	if len(files) != len(want) {
		t.Fatalf("ListDir() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("ListDir()[%d] = '%s', want '%s'", i, files[i], want[i])
		}
	}

	all, err := client.ListDir(ctx, "KSKA", true)
	if err != nil {
		t.Fatalf("Recursive ListDir() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 files under KSKA, got %v", all)
	}

	if _, err := client.ListDir(ctx, "nonexistent", false); err == nil {
		t.Error("Expected error for non-existent directory")
	}
}

func TestLocalClient_PathTraversal(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()

	badPaths := []string{
		"../outside.txt",
		"../../etc/passwd",
		"/etc/passwd",
		"KSKA/../../outside.txt",
		"..",
	}

	for _, p := range badPaths {
		if err := client.StoreFile(ctx, p, []byte("x")); err == nil {
			t.Errorf("StoreFile accepted traversal path '%s'", p)
		}
		if _, err := client.GetFile(ctx, p); err == nil {
			t.Errorf("GetFile accepted traversal path '%s'", p)
		}
		if _, err := client.FileExists(ctx, p); err == nil {
			t.Errorf("FileExists accepted traversal path '%s'", p)
		}
	}

	// Dotted segments that stay inside the root are fine
	if err := client.StoreFile(ctx, "KSKA/../current/ok.txt", []byte("x")); err != nil {
		t.Errorf("StoreFile rejected in-root path: %v", err)
	}
}

func TestLocalClient_ListCycles(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()

	cycles := []string{
		"2025-08-26_19-58-00",
		"2025-08-26_20-03-00",
		"2025-08-27_08-00-00",
	}
	for _, c := range cycles {
		if err := client.StoreFile(ctx, filepath.Join("KSKA", c, "weather.png"), []byte("png")); err != nil {
			t.Fatalf("Failed to seed cycle %s: %v", c, err)
		}
	}
	// Non-cycle entries must be ignored
	if err := client.CreateDir(ctx, "KSKA/scratch"); err != nil {
		t.Fatal(err)
	}
	if err := client.StoreFile(ctx, "KSKA/notes.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}

	got, err := client.ListCycles(ctx, "KSKA", 0)
	if err != nil {
		t.Fatalf("ListCycles() failed: %v", err)
	}
	want := []string{
		"2025-08-27_08-00-00",
		"2025-08-26_20-03-00",
		"2025-08-26_19-58-00",
	}
	if len(got) != len(want) {
		t.Fatalf("ListCycles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListCycles()[%d] = '%s', want '%s'", i, got[i], want[i])
		}
	}

	limited, err := client.ListCycles(ctx, "KSKA", 2)
	if err != nil {
		t.Fatalf("ListCycles() with limit failed: %v", err)
	}
	if len(limited) != 2 || limited[0] != "2025-08-27_08-00-00" {
		t.Errorf("Limited ListCycles() = %v", limited)
	}

	empty, err := client.ListCycles(ctx, "KBFI", 0)
	if err != nil {
		t.Fatalf("ListCycles() for unknown station failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no cycles for unknown station, got %v", empty)
	}
}

func TestLocalClient_PruneCycles(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()

	base := time.Date(2025, 8, 26, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		folder := CycleFolder("KSKA", base.Add(time.Duration(i)*time.Hour))
		if err := client.StoreFile(ctx, filepath.Join(folder, "weather.png"), []byte("png")); err != nil {
			t.Fatalf("Failed to seed cycle: %v", err)
		}
	}

	removed, err := client.PruneCycles(ctx, "KSKA", 2)
	if err != nil {
		t.Fatalf("PruneCycles() failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("Expected 3 cycles removed, got %d", removed)
	}

	remaining, err := client.ListCycles(ctx, "KSKA", 0)
	if err != nil {
		t.Fatalf("ListCycles() failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("Expected 2 cycles remaining, got %v", remaining)
	}
	if remaining[0] != "2025-08-26_14-00-00" || remaining[1] != "2025-08-26_13-00-00" {
		t.Errorf("Pruning kept the wrong cycles: %v", remaining)
	}

	// Nothing more to remove
	removed, err = client.PruneCycles(ctx, "KSKA", 10)
	if err != nil {
		t.Fatalf("PruneCycles() failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected 0 cycles removed, got %d", removed)
	}
}

func TestLocalClient_Integration(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	ctx := context.Background()

	// Complete cycle workflow: store artifacts, check, retrieve, list
	folder := CycleFolder("KSKA", time.Date(2025, 8, 26, 19, 58, 0, 0, time.UTC))
	pageContent := []byte("<html><body><h1>KSKA</h1></body></html>")

	if err := client.StoreFile(ctx, filepath.Join(folder, "weather.html"), pageContent); err != nil {
		t.Fatalf("Failed to store file: %v", err)
	}

	exists, err := client.FileExists(ctx, filepath.Join(folder, "weather.html"))
	if err != nil {
		t.Fatalf("Failed to check file existence: %v", err)
	}
	if !exists {
		t.Error("File should exist after storing")
	}

	retrieved, err := client.GetFile(ctx, filepath.Join(folder, "weather.html"))
	if err != nil {
		t.Fatalf("Failed to retrieve file: %v", err)
	}
	if string(retrieved) != string(pageContent) {
		t.Error("Retrieved content does not match stored content")
	}

	cyclesList, err := client.ListCycles(ctx, "KSKA", 0)
	if err != nil {
		t.Fatalf("Failed to list cycles: %v", err)
	}
	if len(cyclesList) != 1 || cyclesList[0] != "2025-08-26_19-58-00" {
		t.Errorf("Unexpected cycle listing: %v", cyclesList)
	}
}
