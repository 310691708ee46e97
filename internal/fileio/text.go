package fileio

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodingReader оборачивает r декодером в UTF-8. Валидный UTF-8 отдаём как есть,
// иначе спрашиваем chardet; всё неопознанное считаем cp1251.
func decodingReader(r io.Reader, peek []byte) io.Reader {
	if utf8.Valid(trimIncompleteRune(peek)) {
		return r
	}
	cs := "windows-1251"
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		cs = strings.ToLower(det.Charset)
	}
	switch cs {
	case "koi8-r":
		return transform.NewReader(r, charmap.KOI8R.NewDecoder())
	default:
		return transform.NewReader(r, charmap.Windows1251.NewDecoder())
	}
}

// peek может обрезать многобайтовый символ на границе буфера
func trimIncompleteRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// ReadText читает простой текст (ТЗ, уже извлечённое из документа) в UTF-8.
func ReadText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b = bytes.TrimPrefix(b, utf8BOM)
	out, err := io.ReadAll(decodingReader(bytes.NewReader(b), b))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
