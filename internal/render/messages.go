package render

import (
	"sort"
	"strings"

	"qrclip/internal/pipeline"
)

// Messages is one locale's user-visible strings.
type Messages struct {
	Locale        string
	Name          string
	Waiting       string
	NoContent     string
	ReadFailure   string
	DecodeFailure string
	EncodeFailure string
	CopyFailure   string
	Copied        string
}

var catalogs = map[string]Messages{
	"en": {
		Locale:        "en",
		Name:          "English",
		Waiting:       "Waiting for QR code decoding...",
		NoContent:     "No image or text in clipboard",
		ReadFailure:   "Failed to read clipboard",
		DecodeFailure: "Unable to decode QR code",
		EncodeFailure: "Failed to generate QR code",
		CopyFailure:   "Copy failed",
		Copied:        "Copied to clipboard",
	},
	"zh": {
		Locale:        "zh",
		Name:          "中文",
		Waiting:       "等待解码二维码...",
		NoContent:     "剪切板中没有图片或文本",
		ReadFailure:   "读取剪切板失败",
		DecodeFailure: "无法解码二维码",
		EncodeFailure: "无法生成二维码",
		CopyFailure:   "复制失败",
		Copied:        "已复制到剪切板",
	},
}

// Catalog returns messages for locale, falling back to English.
// Region suffixes are ignored, so "zh-CN" selects "zh".
func Catalog(locale string) Messages {
	key := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(key, "-_"); i > 0 {
		key = key[:i]
	}
	if m, ok := catalogs[key]; ok {
		return m
	}
	return catalogs["en"]
}

// Locales lists available catalogs sorted by id.
func Locales() []Messages {
	out := make([]Messages, 0, len(catalogs))
	for _, m := range catalogs {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locale < out[j].Locale })
	return out
}

// ForKind returns the short message shown for an error kind.
func (m Messages) ForKind(kind pipeline.ErrorKind) string {
	switch kind {
	case pipeline.ErrorKindNoContent:
		return m.NoContent
	case pipeline.ErrorKindDecodeFailure:
		return m.DecodeFailure
	case pipeline.ErrorKindEncodeFailure:
		return m.EncodeFailure
	case pipeline.ErrorKindCopyFailure:
		return m.CopyFailure
	default:
		return m.ReadFailure
	}
}
