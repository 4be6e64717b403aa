package mqformat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	retry "github.com/avast/retry-go"

	"github.com/dgoffredo/ipc/errorsbp"
	"github.com/dgoffredo/ipc/log"
	"github.com/dgoffredo/ipc/randbp"
)

const (
	spillFilePrefix = "mq-message-"

	// user can read/write, everyone else can read.
	spillFilePermissions os.FileMode = 0644

	spillFileAttempts = 3

	// Length of the random suffix appended to spillFilePrefix.
	spillFileSuffixLength = 16
)

// tempDirectoryPath returns the path to the system temporary directory,
// resolved the same way POSIX implementations of
// std::filesystem::temp_directory_path do.
func tempDirectoryPath() (string, error) {
	variables := []string{"TMPDIR", "TMP", "TEMP", "TEMPDIR"}

	var value, variable string
	for _, v := range variables {
		if got := os.Getenv(v); got != "" {
			value, variable = got, v
			break
		}
	}
	if value == "" {
		value = "/tmp"
	}

	// os.Stat follows symlinks.
	if info, err := os.Stat(value); err != nil || !info.IsDir() {
		log.Warnw(
			"the resolved temporary path is not a directory",
			"path", value,
			"variable", variable,
		)
		return "", fmt.Errorf("mqformat: %q is not a directory", value)
	}

	return value, nil
}

// createSpillFile creates a fresh, exclusively created temporary file in
// the system temporary directory and returns it together with its absolute
// path. Name collisions are retried with freshly generated names, up to
// spillFileAttempts times in total.
func createSpillFile() (*os.File, string, error) {
	dir, err := tempDirectoryPath()
	if err != nil {
		return nil, "", err
	}

	var file *os.File
	var path string
	attempt := 0
	err = retry.Do(
		func() error {
			attempt++
			name := spillFilePrefix + randbp.GenerateRandomString(randbp.RandomStringArgs{
				MinLength: spillFileSuffixLength,
				MaxLength: spillFileSuffixLength + 1,
				Runes:     []rune(randbp.FilenameRunes),
			})
			candidate, err := filepath.Abs(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			f, err := os.OpenFile(
				candidate,
				os.O_WRONLY|os.O_CREATE|os.O_EXCL,
				spillFilePermissions,
			)
			if err != nil {
				log.Warnw(
					"unable to create temporary file",
					"path", candidate,
					"attempt", fmt.Sprintf("%d/%d", attempt, spillFileAttempts),
					"err", err,
				)
				return err
			}
			file = f
			path = candidate
			return nil
		},
		retry.Attempts(spillFileAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, "", err
	}
	return file, path, nil
}

// writeSpillFile writes data to a fresh temporary file and returns the
// file's absolute path. The file is not open by this process when
// writeSpillFile returns.
func writeSpillFile(data []byte) (string, error) {
	file, path, err := createSpillFile()
	if err != nil {
		return "", err
	}

	var batch errorsbp.Batch
	n, err := file.Write(data)
	if err != nil {
		batch.Add(fmt.Errorf("write to temporary file %q: %w", path, err))
	} else if n != len(data) {
		batch.Add(fmt.Errorf(
			"tried to write %d bytes to temporary file %q but only %d were written",
			len(data), path, n,
		))
	}
	if err := file.Close(); err != nil {
		batch.Add(fmt.Errorf("close temporary file %q: %w", path, err))
	}
	if err := batch.Compile(); err != nil {
		return "", err
	}

	return path, nil
}

// readAndRemoveSpillFile reads the entire contents of the file at path and
// then deletes it. Failure to close or delete the file is logged, not
// returned. A read that observes a size different from what a preceding
// stat reported means the file was modified in between, and is an error.
func readAndRemoveSpillFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spill file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warnw("unable to close spill file", "path", path, "err", err)
		}
		if err := os.Remove(path); err != nil {
			log.Warnw("unable to remove spill file", "path", path, "err", err)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("determine size of spill file: %w", err)
	}
	size := info.Size()
	if size == 0 {
		// success, since there's nothing to read.
		return []byte{}, nil
	}

	// Read one byte of extra room so that a file that grew between the
	// stat and the read is detected.
	room := size + 1
	buf := make([]byte, room)
	n, err := io.ReadFull(file, buf)
	switch {
	case err == nil:
		return nil, fmt.Errorf(
			"read more bytes from spill file than expected: expected %d, the file has more; maybe the file was modified",
			size,
		)
	case errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF):
		if int64(n) != size {
			return nil, fmt.Errorf(
				"unable to read entire contents of spill file: expected %d bytes but got only %d",
				size, n,
			)
		}
		return buf[:n], nil
	default:
		return nil, fmt.Errorf("read spill file: %w", err)
	}
}
