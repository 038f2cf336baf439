package pathconf

import "os"

// SetCloseError makes temporary files created by AppendLine report err from
// Close after closing the real file. It returns a restore function.
func SetCloseError(err error) func() {
	orig := createTemp
	createTemp = func(dir, pattern string) (tempFile, error) {
		f, cerr := os.CreateTemp(dir, pattern)
		if cerr != nil {
			return nil, cerr
		}

		return closeFailingFile{File: f, err: err}, nil
	}

	return func() { createTemp = orig }
}

type closeFailingFile struct {
	*os.File
	err error
}

func (f closeFailingFile) Close() error {
	_ = f.File.Close()

	return f.err
}
