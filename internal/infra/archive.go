package infra

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pomokit/pomo/internal/domain"
)

const (
	sessionFilePrefix = "sessions-"
	breakFilePrefix   = "breaks-"
	archiveExt        = ".log"
	monthLayout       = "2006-01"
)

// FileArchive implements domain.Archive as per-month JSONL files,
// one record per line, append-only. Files are never rewritten.
type FileArchive struct {
	dir string
}

// NewArchive creates an archive rooted at dir.
func NewArchive(dir string) *FileArchive {
	return &FileArchive{dir: dir}
}

// AppendSession appends one completed-session record to the month file
// keyed by the session's end time.
func (a *FileArchive) AppendSession(rec domain.SessionRecord) error {
	return a.appendLine(sessionFilePrefix, rec.EndTime, rec)
}

// AppendBreak appends one break-compliance record.
func (a *FileArchive) AppendBreak(rec domain.BreakRecord) error {
	return a.appendLine(breakFilePrefix, rec.EndTime, rec)
}

func (a *FileArchive) appendLine(prefix string, at time.Time, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.dir, 0o700); err != nil {
		return err
	}

	name := prefix + at.UTC().Format(monthLayout) + archiveExt
	f, err := os.OpenFile(filepath.Join(a.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// Sessions returns archived sessions whose end time falls in [from, to),
// in the order they were written.
func (a *FileArchive) Sessions(from, to time.Time) ([]domain.SessionRecord, error) {
	files, err := filepath.Glob(filepath.Join(a.dir, sessionFilePrefix+"*"+archiveExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(files) // month files sort chronologically by name

	var out []domain.SessionRecord
	for _, file := range files {
		recs, err := readSessionFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading archive %s: %w", file, err)
		}
		for _, rec := range recs {
			if !rec.EndTime.Before(from) && rec.EndTime.Before(to) {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func readSessionFile(path string) ([]domain.SessionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recs []domain.SessionRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec domain.SessionRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			// A torn final line can only come from a crash mid-append;
			// earlier records are still intact, so surface it loudly.
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
		}
		recs = append(recs, rec)
	}
	return recs, scanner.Err()
}

var _ domain.Archive = (*FileArchive)(nil)
