package usage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"tldr/pkg/models"
)

const fileLayout = "2006_01_02_15_04_05"

// CSVTracker appends usage rows to the newest .csv file in dir. A new timestamped file, with a
// header row, is only started when the directory has none.
type CSVTracker struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

func NewCSVTracker(dir string) *CSVTracker {
	return &CSVTracker{dir: dir, now: time.Now}
}

func (t *CSVTracker) Record(_ context.Context, u *models.Usage) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("error creating metrics directory, %w", err)
	}

	path, err := t.currentFile()
	if err != nil {
		return err
	}

	header := false
	if len(path) == 0 {
		path = filepath.Join(t.dir, t.now().Format(fileLayout)+".csv")
		header = true
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error opening metrics file, %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if header {
		if err = w.Write(models.UsageHeader); err != nil {
			return fmt.Errorf("error writing metrics header, %w", err)
		}
	}
	if err = w.Write(u.Row()); err != nil {
		return fmt.Errorf("error writing metrics row, %w", err)
	}
	w.Flush()

	return w.Error()
}

// Files lists the metrics files, oldest first.
func (t *CSVTracker) Files() ([]string, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading metrics directory, %w", err)
	}

	files := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		files = append(files, filepath.Join(t.dir, e.Name()))
	}
	sort.Strings(files)

	return files, nil
}

func (t *CSVTracker) currentFile() (string, error) {
	files, err := t.Files()
	if err != nil || len(files) == 0 {
		return "", err
	}
	return files[len(files)-1], nil
}
