package pinyin

import (
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"
)

var toneArgs = gopinyin.NewArgs()

func init() {
	toneArgs.Style = gopinyin.Tone
	toneArgs.Heteronym = false
}

// FromHanzi converts Chinese text to space separated pinyin with tone marks.
// Characters without a reading are dropped.
func FromHanzi(text string) string {
	return convert(text, toneArgs, " ")
}

// FromHanziNoTone converts Chinese text to pinyin without tone marks.
func FromHanziNoTone(text string) string {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Normal
	return convert(text, args, " ")
}

// Initials converts Chinese text to the first letter of each syllable.
func Initials(text string) string {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.FirstLetter
	return convert(text, args, "")
}

func convert(text string, args gopinyin.Args, sep string) string {
	if text == "" {
		return ""
	}

	result := gopinyin.Pinyin(text, args)
	parts := make([]string, 0, len(result))
	for _, item := range result {
		if len(item) > 0 {
			parts = append(parts, item[0])
		}
	}
	return strings.Join(parts, sep)
}
