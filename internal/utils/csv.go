package utils

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"klinetime/internal/domain"
)

// WriteKlinesToCSV exports a candle series. Bucket boundaries are written
// both as raw epoch milliseconds and as the localized open time the bucket's
// timezone produces.
func WriteKlinesToCSV(klines []*domain.Kline, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"open_time_ms", "close_time_ms", "open_time", "symbol", "interval", "open", "high", "low", "close", "volume"})

	for _, k := range klines {
		writer.Write([]string{
			strconv.FormatInt(k.Bucket.OpenMillis(), 10),
			strconv.FormatInt(k.Bucket.CloseMillis(), 10),
			k.Bucket.Time().Format(time.RFC3339),
			k.Symbol,
			k.Bucket.Interval().String(),
			strconv.FormatFloat(k.Open, 'f', -1, 64),
			strconv.FormatFloat(k.High, 'f', -1, 64),
			strconv.FormatFloat(k.Low, 'f', -1, 64),
			strconv.FormatFloat(k.Close, 'f', -1, 64),
			strconv.FormatFloat(k.Volume, 'f', -1, 64),
		})
	}
	return writer.Error()
}
