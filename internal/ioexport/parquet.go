package ioexport

import (
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/series"
)

// WriteParquet writes the observation table of one source file. The
// first column is the date axis, every series is a nullable string
// column. Missing values are stored as nulls.
func WriteParquet(path string, o *catalog.Observations) error {
	fields := make([]arrow.Field, 0, len(o.Series)+1)
	fields = append(fields, arrow.Field{
		Name: "date",
		Type: arrow.FixedWidthTypes.Date32,
	})
	for _, s := range o.Series {
		fields = append(fields, arrow.Field{
			Name:     s,
			Type:     arrow.BinaryTypes.String,
			Nullable: true,
		})
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	dateB := b.Field(0).(*array.Date32Builder)
	for i, d := range o.Dates {
		dateB.Append(arrow.Date32FromTime(d.Time))
		row := o.Values[i]
		for j := range o.Series {
			sb := b.Field(j + 1).(*array.StringBuilder)
			if j >= len(row) || series.IsMissing(row[j]) {
				sb.AppendNull()
				continue
			}
			sb.Append(row[j])
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	file, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(schema, file, props, arrowProps)
	if err != nil {
		return WriteError(path, err)
	}
	if err = writer.Write(rec); err != nil {
		writer.Close()
		return WriteError(path, err)
	}
	if err = writer.Close(); err != nil {
		return WriteError(path, err)
	}
	return nil
}
