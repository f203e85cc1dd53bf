package answer

import (
	"fmt"
	"sync"

	"github.com/liuzl/gocc"
)

var (
	s2t      *gocc.OpenCC // Simplified to Traditional
	t2s      *gocc.OpenCC // Traditional to Simplified
	convOnce sync.Once
	convErr  error
)

// loadConverters initializes the OpenCC dictionaries on first use.
func loadConverters() error {
	convOnce.Do(func() {
		s2t, convErr = gocc.New("s2t")
		if convErr != nil {
			convErr = fmt.Errorf("failed to initialize s2t converter: %w", convErr)
			return
		}
		t2s, convErr = gocc.New("t2s")
		if convErr != nil {
			convErr = fmt.Errorf("failed to initialize t2s converter: %w", convErr)
		}
	})
	return convErr
}

// ToTraditional converts simplified Chinese to traditional Chinese.
func ToTraditional(text string) (string, error) {
	if err := loadConverters(); err != nil {
		return "", err
	}
	return s2t.Convert(text)
}

// ToSimplified converts traditional Chinese to simplified Chinese.
func ToSimplified(text string) (string, error) {
	if err := loadConverters(); err != nil {
		return "", err
	}
	return t2s.Convert(text)
}

// MatchScriptVariant reports whether input and target are equal once both are
// folded to simplified characters.
func MatchScriptVariant(input, target string) bool {
	in, err := ToSimplified(NormalizeScript(input))
	if err != nil {
		return false
	}
	want, err := ToSimplified(NormalizeScript(target))
	if err != nil {
		return false
	}
	return in == want
}
