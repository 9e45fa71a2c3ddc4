package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/chatdoc"
	"github.com/fwojciec/chatdoc/fernet"
	cdfs "github.com/fwojciec/chatdoc/fs"
)

// sampleDirectory is sealed when no input file is given. The codes are
// fictitious.
var sampleDirectory = map[string]string{
	"GOMA850101HDFRRL09": "ana.gomez@example.com",
	"PEMJ920313HDFLRN01": "juan.perez@example.com",
	"LOAR750630HNLPZB02": "ricardo.lopez@example.com",
	"HEGM880724MJCRRR05": "maria.hernandez@example.com",
}

// Run executes the seal command.
func (c *SealCmd) Run(deps *Dependencies) error {
	plaintext, err := c.plaintext()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatdoc.ErrorMessage(err))
		return err
	}

	key := c.Key
	if key == "" {
		if key, err = fernet.GenerateKey(); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "CHATDOC_ENCRYPTION_KEY=%s\n", key)
	}

	cipher, err := fernet.NewCipher(key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", chatdoc.ErrorMessage(err))
		return err
	}
	token, err := cipher.Encrypt(plaintext)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := cdfs.WriteFile(c.Output, append(token, '\n'), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Output, err)
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Output)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "CHATDOC_ENCRYPTED_DATA=%s\n", token)
	return nil
}

// plaintext returns the directory JSON to seal after checking it parses.
func (c *SealCmd) plaintext() ([]byte, error) {
	if c.Input == "" {
		return json.Marshal(sampleDirectory)
	}

	data, err := os.ReadFile(c.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.Input, err)
	}
	if _, err := chatdoc.ParseDirectory(data); err != nil {
		return nil, err
	}
	return data, nil
}
