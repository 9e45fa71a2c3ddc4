// Package fernet implements chatdoc.Decrypter with Fernet tokens
// (AES-128-CBC with HMAC-SHA256), the format the directory blob is shipped in.
package fernet

import (
	"bytes"
	"context"

	"github.com/fernet/fernet-go"
	"github.com/fwojciec/chatdoc"
)

// Ensure Cipher implements chatdoc.Decrypter at compile time.
var _ chatdoc.Decrypter = (*Cipher)(nil)

// Cipher encrypts and decrypts Fernet tokens with a single key.
type Cipher struct {
	key *fernet.Key
}

// NewCipher creates a Cipher from a URL-safe base64 encoded 32-byte key.
// Returns EDECRYPT if the key is malformed. The key is never included in
// error messages.
func NewCipher(encodedKey string) (*Cipher, error) {
	key, err := fernet.DecodeKey(string(bytes.TrimSpace([]byte(encodedKey))))
	if err != nil {
		return nil, chatdoc.Errorf(chatdoc.EDECRYPT, "encryption key is not a valid Fernet key")
	}
	return &Cipher{key: key}, nil
}

// GenerateKey returns a new random key, URL-safe base64 encoded.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", err
	}
	return key.Encode(), nil
}

// Decrypt verifies and decrypts a token. Tokens never expire.
// Returns EDECRYPT if the key does not match or the token is corrupt.
func (c *Cipher) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	token := bytes.TrimSpace(ciphertext)
	if len(token) == 0 {
		return nil, chatdoc.Errorf(chatdoc.EDECRYPT, "encrypted directory is empty")
	}
	plaintext := fernet.VerifyAndDecrypt(token, 0, []*fernet.Key{c.key})
	if plaintext == nil {
		return nil, chatdoc.Errorf(chatdoc.EDECRYPT, "invalid token: wrong key or corrupt data")
	}
	return plaintext, nil
}

// Encrypt returns a token for plaintext.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	return fernet.EncryptAndSign(plaintext, c.key)
}
