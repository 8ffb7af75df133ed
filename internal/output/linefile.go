package output

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
	"github.com/hyp3rd/complog/internal/utils"
)

const (
	continuationPrefix = "\t"
	compactDivisor     = 4
	tmpSuffix          = ".tmp"
	lockSuffix         = ".lock"
	lockTimeout        = 5 * time.Second
	lockRetryDelay     = 10 * time.Millisecond
)

// LineFileConfig holds configuration for a LineFile.
type LineFileConfig struct {
	// Path is the log file path.
	Path string
	// MaxLines is the number of records retained; zero disables appends.
	MaxLines int
	// FileMode sets the permissions for new log files.
	FileMode os.FileMode
	// ErrorHandler is called when background compaction fails.
	ErrorHandler func(error)
}

// LineFile is a file-backed store of log records bounded by record count.
//
// Each record occupies one line; the continuation lines of a multi-line record
// (an error trace, typically) are indented with a tab, so a record must not start
// with a tab itself. Evicted records stay in the file until the number of records
// on disk exceeds MaxLines by a quarter, at which point the file is rewritten.
type LineFile struct {
	mu           sync.Mutex
	file         *os.File
	path         string
	mode         os.FileMode
	maxLines     int
	records      []string // retained records, oldest first
	onDisk       int
	errorHandler func(error)
}

// NewLineFile opens (or creates) the file at config.Path and loads the records it
// already holds, keeping the newest MaxLines of them.
func NewLineFile(config LineFileConfig) (*LineFile, error) {
	if config.Path == "" {
		return nil, ewrap.New("log file path is required")
	}

	if config.MaxLines < 0 {
		config.MaxLines = 0
	}

	if config.FileMode == 0 {
		config.FileMode = complog.LogFilePermissions
	}

	err := utils.EnsureDir(filepath.Dir(config.Path))
	if err != nil {
		return nil, err
	}

	records, err := readRecords(config.Path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.FileMode)
	if err != nil {
		return nil, ewrap.Wrapf(err, "opening log file").
			WithMetadata("path", config.Path)
	}

	sink := &LineFile{
		file:         file,
		path:         config.Path,
		mode:         config.FileMode,
		maxLines:     config.MaxLines,
		records:      records,
		onDisk:       len(records),
		errorHandler: config.ErrorHandler,
	}

	sink.trim()

	if sink.onDisk != len(sink.records) {
		err = sink.compact()
		if err != nil {
			_ = sink.Close()

			return nil, err
		}
	}

	return sink, nil
}

// Append stores one record. It is a no-op when MaxLines is zero.
func (f *LineFile) Append(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return ErrSinkClosed
	}

	if f.maxLines <= 0 {
		return nil
	}

	_, err := f.file.WriteString(encodeRecord(line))
	if err != nil {
		return ewrap.Wrap(err, "failed writing to log file").WithMetadata("path", f.path)
	}

	f.records = append(f.records, line)
	f.onDisk++
	f.trim()

	if f.onDisk > f.maxLines+compactSlack(f.maxLines) {
		return f.compact()
	}

	return nil
}

// SetMaxLines changes the retained-record bound, evicting the oldest records
// past the new bound. Negative values count as zero.
func (f *LineFile) SetMaxLines(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n < 0 {
		n = 0
	}

	f.maxLines = n
	f.trim()

	if f.file != nil && f.onDisk != len(f.records) {
		err := f.compact()
		if err != nil && f.errorHandler != nil {
			f.errorHandler(err)
		}
	}
}

// MaxLines returns the retained-record bound.
func (f *LineFile) MaxLines() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.maxLines
}

// Lines returns a copy of the retained records, oldest first.
func (f *LineFile) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, len(f.records))
	copy(lines, f.records)

	return lines
}

// Len returns the number of retained records.
func (f *LineFile) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.records)
}

// Path returns the file path.
func (f *LineFile) Path() string {
	return f.path
}

// Clear drops every record and truncates the file.
func (f *LineFile) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return ErrSinkClosed
	}

	f.records = nil

	return f.compact()
}

// Close syncs and closes the file. Closing twice is a no-op.
func (f *LineFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}

	err := f.file.Sync()
	if err != nil {
		return ewrap.Wrapf(err, "final sync before close")
	}

	err = f.file.Close()
	if err != nil {
		return ewrap.Wrapf(err, "closing log file")
	}

	f.file = nil

	return nil
}

// trim evicts the oldest in-memory records past maxLines.
func (f *LineFile) trim() {
	excess := len(f.records) - f.maxLines
	if excess <= 0 {
		return
	}

	kept := make([]string, f.maxLines, f.maxLines+compactSlack(f.maxLines))
	copy(kept, f.records[excess:])
	f.records = kept
}

// compact rewrites the file with the retained records only, holding an advisory
// lock on "<path>.lock" so processes sharing the log directory do not interleave
// rewrites.
func (f *LineFile) compact() error {
	lock := flock.New(f.path + lockSuffix)

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return ewrap.Wrapf(err, "acquiring log file lock").WithMetadata("path", f.path)
	}

	if !locked {
		return ewrap.New("timed out acquiring log file lock").WithMetadata("path", f.path)
	}

	defer func() { _ = lock.Unlock() }()

	return f.rewrite()
}

func (f *LineFile) rewrite() error {
	tmpPath := f.path + tmpSuffix

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, f.mode)
	if err != nil {
		return ewrap.Wrapf(err, "creating compacted log file").WithMetadata("path", tmpPath)
	}

	writer := bufio.NewWriter(tmp)

	for _, record := range f.records {
		_, err = writer.WriteString(encodeRecord(record))
		if err != nil {
			break
		}
	}

	if err == nil {
		err = writer.Flush()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmpPath)

		return ewrap.Wrapf(err, "writing compacted log file").WithMetadata("path", tmpPath)
	}

	if f.file != nil {
		err = f.file.Close()
		if err != nil {
			return ewrap.Wrapf(err, "closing log file before compaction").WithMetadata("path", f.path)
		}

		f.file = nil
	}

	err = os.Rename(tmpPath, f.path)
	if err != nil {
		return ewrap.Wrapf(err, "renaming compacted log file").
			WithMetadata("from", tmpPath).
			WithMetadata("to", f.path)
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, f.mode)
	if err != nil {
		return ewrap.Wrapf(err, "reopening log file").WithMetadata("path", f.path)
	}

	f.file = file
	f.onDisk = len(f.records)

	return nil
}

func compactSlack(maxLines int) int {
	return max(maxLines/compactDivisor, 1)
}

func encodeRecord(line string) string {
	return strings.ReplaceAll(line, "\n", "\n"+continuationPrefix) + "\n"
}

// ReadRecords returns the records stored in the log file at path without opening
// it for writing. A missing file holds none.
func ReadRecords(path string) ([]string, error) {
	return readRecords(path)
}

// readRecords decodes the records stored at path; a missing file holds none.
func readRecords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, ewrap.Wrapf(err, "reading log file").WithMetadata("path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []string

	for _, physical := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if strings.HasPrefix(physical, continuationPrefix) && len(records) > 0 {
			records[len(records)-1] += "\n" + strings.TrimPrefix(physical, continuationPrefix)

			continue
		}

		records = append(records, physical)
	}

	return records, nil
}

// FactoryConfig configures NewLineFileFactory.
type FactoryConfig struct {
	// Dir holds one file per component.
	Dir string
	// MaxLines is the initial bound of every file.
	MaxLines int
	// FileMode sets the permissions for new log files.
	FileMode os.FileMode
	// ErrorHandler is called when background compaction fails.
	ErrorHandler func(error)
}

// NewLineFileFactory returns a factory creating "<Dir>/<component>.log" sinks.
// Component names are sanitized into file names confined to Dir.
func NewLineFileFactory(config FactoryConfig) complog.FileSinkFactory {
	return func(component string) (complog.FileSink, error) {
		if config.Dir == "" {
			return nil, ErrNoLogDir
		}

		path, err := utils.SecurePath(config.Dir, utils.SafeFileName(component)+constants.LogFileExtension)
		if err != nil {
			return nil, ewrap.Wrap(err, "invalid log file path").WithMetadata("component", component)
		}

		sink, err := NewLineFile(LineFileConfig{
			Path:         path,
			MaxLines:     config.MaxLines,
			FileMode:     config.FileMode,
			ErrorHandler: config.ErrorHandler,
		})
		if err != nil {
			return nil, ewrap.Wrap(err, "creating file sink").WithMetadata("component", component)
		}

		return sink, nil
	}
}

var _ complog.FileSink = (*LineFile)(nil)
