package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// 取り込み時の既定値
const (
	// MinFields は1行に必要な最小フィールド数。これ未満の行は捨てる。
	MinFields = 8

	// DefaultMedianAge は有効な年齢が1件もない場合に使う値
	DefaultMedianAge = 29.7

	// DefaultClass は客室等級を解釈できない場合の値
	DefaultClass = 3.0
)

// 入力行のフィールド位置
// survived, pclass, name, sex, age, fare, sibsp, parch
const (
	fieldSurvived = 0
	fieldClass    = 1
	fieldSex      = 3
	fieldAge      = 4
	fieldFare     = 5
	fieldSibSp    = 6
	fieldParch    = 7
)

// IngestReport は取り込み結果の集計
type IngestReport struct {
	// RowsRead はヘッダーを除いた入力行数
	RowsRead int
	// RowsSkipped はフィールド不足で捨てた行数
	RowsSkipped int
	// RowsUsed は DataSet に入った行数
	RowsUsed int
	// MedianAge は欠損年齢の補完に使った値
	MedianAge float64
	// MedianFallback は有効な年齢がなく DefaultMedianAge を使った場合に true
	MedianFallback bool
	// Defaulted は既定値に置き換えたフィールドごとの件数
	Defaulted map[string]int
}

// ParseOr は s を float64 として解釈し、失敗した場合は def を返す
//
// 個々のフィールドの解釈失敗はエラーにせず既定値で置き換える。
// NaN と ±Inf も解釈失敗として扱う。
func ParseOr(s string, def float64) float64 {
	v, ok := parse(s)
	if !ok {
		return def
	}
	return v
}

func parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Ingest は文字列の行を DataSet に変換する
//
// 先頭行はヘッダーとして捨てる。MinFields 未満の行は数えずに捨てる。
// 利用可能な行が残らなかった場合は IngestError を返す。
func Ingest(rows [][]string) (*DataSet, error) {
	ds, _, err := IngestWithReport(rows)
	return ds, err
}

// IngestWithReport は Ingest と同じ変換を行い、集計結果も返す
func IngestWithReport(rows [][]string) (*DataSet, IngestReport, error) {
	report := IngestReport{Defaulted: make(map[string]int)}
	if len(rows) <= 1 {
		return nil, report, errors.NewIngestError("rows", "no data rows after header", errors.ErrNoUsableRows)
	}

	data := rows[1:]
	report.RowsRead = len(data)

	valid := make([][]string, 0, len(data))
	for _, row := range data {
		if len(row) < MinFields {
			report.RowsSkipped++
			continue
		}
		valid = append(valid, row)
	}
	if len(valid) == 0 {
		return nil, report, errors.NewIngestError("rows", "every row has fewer than 8 fields", errors.ErrNoUsableRows)
	}

	// 年齢の中央値は行ごとの変換より前に、ファイル全体から一度だけ求める
	report.MedianAge, report.MedianFallback = medianAge(valid)

	features := make([][]float64, 0, len(valid))
	labels := make([]float64, 0, len(valid))
	for _, row := range valid {
		vec, label := passengerRow(row, report.MedianAge, report.Defaulted)
		features = append(features, vec)
		labels = append(labels, label)
	}
	report.RowsUsed = len(features)

	return &DataSet{Features: features, Labels: labels}, report, nil
}

// medianAge は年齢フィールドの上側中央値（sorted[n/2]）を返す
func medianAge(rows [][]string) (float64, bool) {
	var ages []float64
	for _, row := range rows {
		raw := field(row, fieldAge)
		if raw == "" || raw == " " {
			continue
		}
		if age, ok := parse(raw); ok {
			ages = append(ages, age)
		}
	}
	if len(ages) == 0 {
		return DefaultMedianAge, true
	}
	sort.Float64s(ages)
	return ages[len(ages)/2], false
}

// passengerRow は1行を特徴量ベクトルとラベルに変換する
func passengerRow(row []string, median float64, defaulted map[string]int) ([]float64, float64) {
	or := func(name string, idx int, def float64) float64 {
		v, ok := parse(field(row, idx))
		if !ok {
			defaulted[name]++
			return def
		}
		return v
	}

	label := or("survived", fieldSurvived, 0.0)
	// ラベルは 0.0 か 1.0 のみ
	if label != 0.0 && label != 1.0 {
		defaulted["survived"]++
		label = 0.0
	}
	class := or("pclass", fieldClass, DefaultClass)
	sex := sexCode(field(row, fieldSex))
	age := or("age", fieldAge, median)
	fare := or("fare", fieldFare, 0.0)
	sibsp := or("sibsp", fieldSibSp, 0.0)
	parch := or("parch", fieldParch, 0.0)

	return []float64{class, sex, age, fare, sibsp, parch, sibsp + parch + 1.0}, label
}

// sexCode は性別フィールドを数値化する
//
// 大文字小文字を無視して "male" を部分文字列として含めば 0.0、それ以外は 1.0。
// "female" も "male" を含むため 0.0 になる。この規則は入力データ互換のため意図的に維持している。
func sexCode(s string) float64 {
	if strings.Contains(strings.ToLower(s), "male") {
		return 0.0
	}
	return 1.0
}

// field は範囲外のインデックスに対して空文字列を返す
func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
