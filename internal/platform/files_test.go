package platform

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Create directory
	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Directory should now exist
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if downloadsDir == "" {
		t.Fatal("Downloads directory is empty")
	}

	// Should end with "Downloads"
	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestOpenFileWithDefaultApp_InvalidPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "empty path", path: "", wantMsg: "file path is empty"},
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.mp4"), wantMsg: "file does not exist:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := OpenFileWithDefaultApp(tt.path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantMsg, err)
			}
		})
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	// Create a temporary directory with no similar files
	tempDir := t.TempDir()
	nonExistentFile := filepath.Join(tempDir, "nonexistent.txt")

	err := OpenFileInManager(nonExistentFile)
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}

	// Check that error contains the expected message
	if !strings.Contains(err.Error(), "file does not exist:") {
		t.Errorf("Error message should contain 'file does not exist:', got: %v", err)
	}
}

func TestOpenFileInManager_WithExistingFile(t *testing.T) {
	// Create a temporary file
	tempFile, err := os.CreateTemp("", "test_file_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())
	tempFile.Close()

	// This test just verifies the function doesn't panic and handles the file path
	// We can't really test the actual opening without user interaction
	err = OpenFileInManager(tempFile.Name())

	// On CI or headless systems, this might fail, which is expected
	// We're mainly testing that the function handles the path correctly
	if err != nil {
		t.Logf("OpenFileInManager failed (expected on headless systems): %v", err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "My Song", expected: "My Song"},
		{name: "invalid characters", input: "Song: Part 1/2", expected: "Song_ Part 1_2"},
		{name: "trailing dots", input: "Track...", expected: "Track"},
		{name: "whitespace", input: "  Name   with \t spaces ", expected: "Name with spaces"},
		{name: "newline", input: "First line\nSecond line", expected: "First line Second line"},
		{name: "only invalid", input: "...", expected: DefaultFileName},
		{name: "empty", input: "", expected: DefaultFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.expected {
				t.Errorf("SanitizeFileName(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFileName_Truncates(t *testing.T) {
	long := strings.Repeat("é", MaxFileNameLength+20)
	got := SanitizeFileName(long)
	if n := len([]rune(got)); n != MaxFileNameLength {
		t.Errorf("Expected %d runes, got %d", MaxFileNameLength, n)
	}
}

func TestCreateUniqueFile(t *testing.T) {
	dir := t.TempDir()

	expected := []string{"clip.mp4", "clip (1).mp4", "clip (2).mp4"}
	for _, want := range expected {
		f, path, err := CreateUniqueFile(dir, "clip", ".mp4")
		if err != nil {
			t.Fatalf("CreateUniqueFile failed: %v", err)
		}
		f.Close()
		if filepath.Base(path) != want {
			t.Errorf("Expected %s, got %s", want, filepath.Base(path))
		}
	}
}

func TestCreateUniqueFile_Concurrent(t *testing.T) {
	dir := t.TempDir()
	const workers = 8

	var wg sync.WaitGroup
	paths := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, path, err := CreateUniqueFile(dir, "same title", "mp4")
			if err == nil {
				f.Close()
			}
			paths[i], errs[i] = path, err
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i, p := range paths {
		if errs[i] != nil {
			t.Fatalf("worker %d failed: %v", i, errs[i])
		}
		if seen[p] {
			t.Errorf("Path handed out twice: %s", p)
		}
		seen[p] = true
	}
}

func TestRenameUnique(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.m4a")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("older"), 0644); err != nil {
		t.Fatal(err)
	}

	dst, err := RenameUnique(src, "mp3")
	if err != nil {
		t.Fatalf("RenameUnique failed: %v", err)
	}
	if filepath.Base(dst) != "song (1).mp3" {
		t.Errorf("Expected song (1).mp3, got %s", filepath.Base(dst))
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "audio" {
		t.Errorf("Expected moved content, got %q (%v)", data, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("Expected source to be gone, got %v", err)
	}
}

func TestSetupLogFile(t *testing.T) {
	origOutput := log.Writer()
	origFlags := log.Flags()
	defer func() {
		log.SetOutput(origOutput)
		log.SetFlags(origFlags)
	}()

	tests := []struct {
		name   string
		mirror *strings.Builder
	}{
		{"file only", nil},
		{"mirrored", &strings.Builder{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "logs", "download.log")
			var mirror io.Writer
			if tt.mirror != nil {
				mirror = tt.mirror
			}
			closer, err := SetupLogFile(path, mirror)
			if err != nil {
				t.Fatalf("SetupLogFile failed: %v", err)
			}
			log.Printf("hello from test")
			closer.Close()

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read log file: %v", err)
			}
			if !strings.Contains(string(data), "hello from test") {
				t.Errorf("Expected log line in file, got %q", data)
			}
			if tt.mirror != nil && !strings.Contains(tt.mirror.String(), "hello from test") {
				t.Errorf("Expected log line in mirror, got %q", tt.mirror.String())
			}
		})
	}
}
