//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrDataURIPrefix = "data:image/png;base64,"

// QREncoder turns a link into an inline image payload.
type QREncoder interface {
	Encode(ctx context.Context, link string) (string, error)
}

type qrEncoder struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewQREncoder returns an encoder producing size x size PNG data URIs.
// level is one of low, medium, high, highest.
func NewQREncoder(size int, level string) (QREncoder, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: qr size %d", ErrInvalid, size)
	}
	lvl, err := parseRecoveryLevel(level)
	if err != nil {
		return nil, err
	}
	return &qrEncoder{size: size, level: lvl}, nil
}

func (e *qrEncoder) Encode(ctx context.Context, link string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("%w: empty link", ErrInvalid)
	}

	png, err := qrcode.Encode(link, e.level, e.size)
	if err != nil {
		return "", fmt.Errorf("encode qr for %s: %w", link, err)
	}
	return qrDataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

func parseRecoveryLevel(level string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return qrcode.Low, nil
	case "", "medium":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("%w: qr level %q", ErrInvalid, level)
	}
}
