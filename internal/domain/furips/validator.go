package furips

import (
	"strings"
	"unicode/utf8"
)

// Delimiter separador de campos de los archivos planos.
const Delimiter = ","

const previewLen = 100

// LineValidationError línea con número de campos distinto al esperado.
type LineValidationError struct {
	Line           int    `json:"linea"`
	ExpectedFields int    `json:"campos_esperados"`
	ActualFields   int    `json:"campos_encontrados"`
	Preview        string `json:"contenido"`
}

// FileValidationResult resultado de la validación estructural de un archivo.
// IsValid es true si y solo si Errors está vacío.
type FileValidationResult struct {
	IsValid    bool                  `json:"valido"`
	Errors     []LineValidationError `json:"errores"`
	TotalLines int                   `json:"total_lineas"`
	ValidLines int                   `json:"lineas_validas"`
}

// Validate revisa que cada línea no vacía tenga expectedFields campos.
// Reporta todas las líneas inválidas en una sola pasada; las líneas en blanco se omiten.
// Line es el número de línea físico (base uno) dentro del contenido.
func Validate(content string, expectedFields int) FileValidationResult {
	return scan(content, expectedFields, nil)
}

// scan recorre el contenido una sola vez. onValid recibe los campos de cada línea válida.
func scan(content string, expectedFields int, onValid func(line int, fields []string)) FileValidationResult {
	res := FileValidationResult{Errors: []LineValidationError{}}
	lineNo := 0
	rest := content
	for len(rest) > 0 {
		var raw string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			raw, rest = rest[:i], rest[i+1:]
		} else {
			raw, rest = rest, ""
		}
		lineNo++
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		res.TotalLines++
		fields := strings.Split(line, Delimiter)
		if len(fields) != expectedFields {
			res.Errors = append(res.Errors, LineValidationError{
				Line:           lineNo,
				ExpectedFields: expectedFields,
				ActualFields:   len(fields),
				Preview:        preview(line),
			})
			continue
		}
		res.ValidLines++
		if onValid != nil {
			onValid(lineNo, fields)
		}
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

func preview(line string) string {
	if utf8.RuneCountInString(line) <= previewLen {
		return line
	}
	return string([]rune(line)[:previewLen])
}
