package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// ReadRecords はカンマ区切りの入力を文字列フィールドの行として読み込む
//
// 行ごとのフィールド数は可変。引用符で囲まれたフィールドはカンマを含んでよい。
// 各フィールドは前後の空白と `"` を取り除いてから返す。
func ReadRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIngestError("reader", "malformed delimited input", err)
		}
		row := make([]string, len(rec))
		for i, field := range rec {
			row[i] = cleanField(field)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// OpenRecords はファイルを開いて ReadRecords する
func OpenRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIngestError(path, "cannot open source", err)
	}
	defer f.Close()

	rows, err := ReadRecords(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return rows, nil
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}
