package mock

import (
	"context"

	"github.com/fwojciec/chatdoc"
)

var _ chatdoc.Decrypter = (*Decrypter)(nil)

// Decrypter is a mock implementation of chatdoc.Decrypter.
type Decrypter struct {
	DecryptFn func(ctx context.Context, ciphertext []byte) ([]byte, error)
}

func (d *Decrypter) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	return d.DecryptFn(ctx, ciphertext)
}
