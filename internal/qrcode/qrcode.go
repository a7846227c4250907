// Package qrcode renders scan tokens as PNG QR codes.
package qrcode

import (
	"errors"
	"fmt"
	"strconv"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

var ErrEmptyContent = errors.New("qrcode: empty content")

// PNG encodes content as a size x size PNG with medium error correction.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("qrcode: size %d outside [%d, %d]", size, MinSize, MaxSize)
	}
	return goqrcode.Encode(content, goqrcode.Medium, size)
}

// ParseSize reads a ?size= query value. Empty means DefaultSize.
func ParseSize(raw string) (int, error) {
	if raw == "" {
		return DefaultSize, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("qrcode: invalid size %q", raw)
	}
	if size < MinSize || size > MaxSize {
		return 0, fmt.Errorf("qrcode: size %d outside [%d, %d]", size, MinSize, MaxSize)
	}
	return size, nil
}
