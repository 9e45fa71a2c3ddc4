package chatdoc

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Decrypter decrypts the directory blob.
type Decrypter interface {
	// Decrypt returns the plaintext for ciphertext.
	// Returns EDECRYPT if the key is wrong or the ciphertext is corrupt.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// DirectoryLoader decrypts and parses the encrypted directory once and
// caches the result for the lifetime of the loader.
type DirectoryLoader struct {
	decrypter  Decrypter
	ciphertext []byte
	grammar    Grammar
	logger     *slog.Logger

	once sync.Once
	dir  *Directory
	err  error
}

// NewDirectoryLoader creates a new DirectoryLoader. A nil logger discards
// log output.
func NewDirectoryLoader(decrypter Decrypter, ciphertext []byte, grammar Grammar, logger *slog.Logger) *DirectoryLoader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DirectoryLoader{
		decrypter:  decrypter,
		ciphertext: ciphertext,
		grammar:    grammar,
		logger:     logger,
	}
}

// Load returns the directory. The first call decrypts and parses the blob;
// later calls return the same *Directory and error without decrypting again.
//
// Load never returns a nil directory. On failure it logs the error and
// returns an empty directory together with an EDECRYPT or EFORMAT error, so
// lookups keep working and report every code as not found.
func (l *DirectoryLoader) Load(ctx context.Context) (*Directory, error) {
	l.once.Do(func() {
		l.dir, l.err = l.load(ctx)
		if l.err != nil {
			l.logger.Error("directory load failed",
				"code", ErrorCode(l.err),
				"err", ErrorMessage(l.err),
			)
			l.dir, _ = NewDirectory(nil, l.grammar)
		}
	})
	return l.dir, l.err
}

func (l *DirectoryLoader) load(ctx context.Context) (*Directory, error) {
	if l.decrypter == nil {
		return nil, Errorf(EDECRYPT, "no decryption key configured")
	}
	if len(l.ciphertext) == 0 {
		return nil, Errorf(EDECRYPT, "no encrypted directory configured")
	}

	plaintext, err := l.decrypter.Decrypt(ctx, l.ciphertext)
	if err != nil {
		if ErrorCode(err) != EDECRYPT {
			return nil, Errorf(EDECRYPT, "decrypt directory: %s", ErrorMessage(err))
		}
		return nil, err
	}

	entries, err := ParseDirectory(plaintext)
	if err != nil {
		return nil, err
	}

	dir, report := NewDirectory(entries, l.grammar)
	for _, code := range report.Skipped {
		l.logger.Warn("skipping malformed CURP", "curp", MaskCURP(code))
	}
	for _, code := range report.Duplicates {
		l.logger.Warn("duplicate CURP, keeping last entry", "curp", MaskCURP(code))
	}
	l.logger.Info("directory loaded",
		"entries", dir.Len(),
		"skipped", len(report.Skipped),
		"duplicates", len(report.Duplicates),
		"grammar", l.grammar.String(),
	)
	return dir, nil
}
