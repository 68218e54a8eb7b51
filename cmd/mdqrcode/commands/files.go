package commands

import (
	"os"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read file").
			WithContext("path", path).
			Build()
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").
			WithContext("path", path).
			Build()
	}
	return nil
}

// withPath attaches the file path to classified errors.
func withPath(err error, path string) error {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.WithContext("path", path)
	}
	return err
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			WithContext("path", path).
			Build()
	}
	return nil
}
