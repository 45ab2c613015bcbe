package registry

import (
	"bufio"
	"os"
	"path/filepath"

	C "github.com/rdp-studio/dn42-geoasn/constant"
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
)

const maxLineSize = 1024 * 1024

// Reader gives access to the object files of a registry mirror laid out as
// <root>/data/<class>/<object>.
type Reader struct {
	root string
}

func NewReader(root string) *Reader {
	return &Reader{root: root}
}

func (r *Reader) Root() string {
	return r.root
}

func (r *Reader) ClassPath(class string) string {
	return filepath.Join(r.root, C.RegistryDataDirectory, class)
}

func (r *Reader) ObjectPath(class string, name string) string {
	return filepath.Join(r.ClassPath(class), name)
}

// Files lists the regular files of an object class directory in the order the
// filesystem returns them. Subdirectories are not descended into.
func (r *Reader) Files(class string) ([]string, error) {
	classPath := r.ClassPath(class)
	entries, err := os.ReadDir(classPath)
	if err != nil {
		return nil, E.Cause(err, "list ", class, " objects")
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(classPath, entry.Name())
		if entry.Type().IsRegular() {
			files = append(files, path)
			continue
		}
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			files = append(files, path)
		}
	}
	return files, nil
}

// ScanFile feeds every line of the file to fn until fn returns false or the
// file ends. The file is closed before ScanFile returns.
func (r *Reader) ScanFile(path string, fn func(line string) bool) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer common.Close(file)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	scanner.Split(scanLines)
	for scanner.Scan() {
		if !fn(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// scanLines splits on "\n", "\r\n" and a lone "\r", dropping the line break.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, c := range data {
		switch c {
		case '\n':
			return i + 1, data[:i], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if !atEOF {
				// the next read may start with the "\n" of a "\r\n"
				return 0, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
