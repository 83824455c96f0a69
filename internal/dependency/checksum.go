package dependency

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// hashFor picks the algorithm from the length of the hex digest.
func hashFor(sum string) (string, hash.Hash, error) {
	switch len(sum) {
	case md5.Size * 2:
		return "md5", md5.New(), nil
	case sha256.Size * 2:
		return "sha256", sha256.New(), nil
	}
	return "", nil, fmt.Errorf("checksum %q is neither an md5 nor a sha256 hex digest", sum)
}

// VerifyChecksum hashes path and compares it with want, a hex md5 or
// sha256 digest.
func VerifyChecksum(fs afero.Fs, path, want string) error {
	want = strings.ToLower(strings.TrimSpace(want))
	algo, h, err := hashFor(want)
	if err != nil {
		return err
	}
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != want {
		return &IntegrityError{File: path, Algorithm: algo, Want: want, Got: got}
	}
	return nil
}
