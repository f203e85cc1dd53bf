// Package audio requests spoken playback of hanzi text. Speech is fire and
// forget: failures are logged and never reach the caller.
package audio

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// Speaker plays text aloud without blocking the caller.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// NopSpeaker discards every request.
type NopSpeaker struct{}

func (NopSpeaker) Speak(context.Context, string) {}

// Provider names a speech backend.
type Provider string

const (
	ProviderNone Provider = "none"
	ProviderGCP  Provider = "gcp"
)

// ParseProvider maps a config value onto a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "", ProviderNone:
		return ProviderNone, nil
	case ProviderGCP:
		return ProviderGCP, nil
	default:
		return "", fmt.Errorf("unknown audio provider %q", s)
	}
}

// Filename returns the cache file name for text spoken by voice.
func Filename(voice, text string) string {
	sum := sha1.Sum([]byte(voice + "\x00" + text))
	return hex.EncodeToString(sum[:]) + ".mp3"
}
