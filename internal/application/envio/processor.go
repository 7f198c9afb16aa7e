package envio

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/auditoria-soat/internal/domain"
	"github.com/jhoicas/auditoria-soat/internal/domain/furips"
)

// Batch resultado de validar y agregar cada archivo del envío. Los campos de un tipo
// ausente quedan en nil.
type Batch struct {
	Validaciones map[furips.FileKind]furips.FileValidationResult
	Contenidos   Files

	Furips1        *furips.Furips1Aggregation
	Furips1Records []furips.Furips1Record
	Furips2        *furips.Furips2Aggregation
	Furips2Records []furips.Furips2Record
	Furtran        *furips.FurtranAggregation
	FurtranRecords []furips.FurtranRecord
}

// Valid indica si todos los archivos presentes pasaron la validación estructural.
func (b *Batch) Valid() bool {
	for _, v := range b.Validaciones {
		if !v.IsValid {
			return false
		}
	}
	return true
}

// Has indica si el envío incluye el tipo de archivo.
func (b *Batch) Has(kind furips.FileKind) bool {
	_, ok := b.Validaciones[kind]
	return ok
}

// Processor valida, decodifica y agrega los archivos de un envío. Cada tipo se procesa
// en su propia goroutine; no comparten estado.
type Processor struct {
	charset  string
	maxLines int
}

// NewProcessor construye el procesador. maxLines 0 = sin límite.
func NewProcessor(charset string, maxLines int) *Processor {
	return &Processor{charset: charset, maxLines: maxLines}
}

// Process recorre cada archivo una sola vez. Los errores de estructura se devuelven como datos
// en Batch.Validaciones; solo los errores de entrada (charset, límite de líneas) cortan el proceso.
func (p *Processor) Process(ctx context.Context, files Files) (*Batch, error) {
	var (
		res1, res2, resT furips.FileValidationResult
		agg1             furips.Furips1Aggregation
		agg2             furips.Furips2Aggregation
		aggT             furips.FurtranAggregation
		rec1             []furips.Furips1Record
		rec2             []furips.Furips2Record
		recT             []furips.FurtranRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	if raw, ok := files[furips.KindFurips1]; ok {
		g.Go(func() error {
			content, err := p.decode(ctx, furips.KindFurips1, raw)
			if err != nil {
				return err
			}
			rec1, res1 = furips.ReadFurips1(content)
			if err := p.checkLines(furips.KindFurips1, res1); err != nil {
				return err
			}
			agg1 = furips.AggregateFurips1(rec1)
			return nil
		})
	}
	if raw, ok := files[furips.KindFurips2]; ok {
		g.Go(func() error {
			content, err := p.decode(ctx, furips.KindFurips2, raw)
			if err != nil {
				return err
			}
			rec2, res2 = furips.ReadFurips2(content)
			if err := p.checkLines(furips.KindFurips2, res2); err != nil {
				return err
			}
			agg2 = furips.AggregateFurips2(rec2)
			return nil
		})
	}
	if raw, ok := files[furips.KindFurtran]; ok {
		g.Go(func() error {
			content, err := p.decode(ctx, furips.KindFurtran, raw)
			if err != nil {
				return err
			}
			recT, resT = furips.ReadFurtran(content)
			if err := p.checkLines(furips.KindFurtran, resT); err != nil {
				return err
			}
			aggT = furips.AggregateFurtran(recT)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &Batch{
		Validaciones: make(map[furips.FileKind]furips.FileValidationResult, len(files)),
		Contenidos:   files,
	}
	if _, ok := files[furips.KindFurips1]; ok {
		b.Validaciones[furips.KindFurips1] = res1
		b.Furips1, b.Furips1Records = &agg1, rec1
	}
	if _, ok := files[furips.KindFurips2]; ok {
		b.Validaciones[furips.KindFurips2] = res2
		b.Furips2, b.Furips2Records = &agg2, rec2
	}
	if _, ok := files[furips.KindFurtran]; ok {
		b.Validaciones[furips.KindFurtran] = resT
		b.Furtran, b.FurtranRecords = &aggT, recT
	}
	return b, nil
}

func (p *Processor) decode(ctx context.Context, kind furips.FileKind, raw []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := furips.DecodeContent(raw, p.charset)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, kind, err)
	}
	return content, nil
}

func (p *Processor) checkLines(kind furips.FileKind, res furips.FileValidationResult) error {
	if p.maxLines > 0 && res.TotalLines > p.maxLines {
		return fmt.Errorf("%w: %s tiene %d líneas (máximo %d)", domain.ErrTooManyLines, kind, res.TotalLines, p.maxLines)
	}
	return nil
}
