package furips

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeContent convierte el archivo a texto UTF-8. Los programas de facturación suelen exportar
// en Latin-1 / Windows-1252; si el contenido ya es UTF-8 válido se usa tal cual.
func DecodeContent(raw []byte, charset string) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	enc, err := sourceEncoding(charset)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return "", fmt.Errorf("el archivo no es UTF-8 válido")
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decodificar %s: %w", charset, err)
	}
	return string(out), nil
}

func sourceEncoding(charset string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf8", "utf-8":
		return nil, nil
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
}
