package main

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

func sha256sum(filePath string) (string, error) {
	h := sha256.New()
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
