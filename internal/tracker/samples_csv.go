package tracker

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TimedSample is a sample with its offset from the start of a recording.
type TimedSample struct {
	Sample
	Offset time.Duration
}

// ReadSamples reads recorded samples, one per row: X,Y,Z[,OFFSET_MS].
// Rows without an offset are spaced by the given interval. Empty lines
// and lines starting with '#' are skipped.
func ReadSamples(r io.Reader, interval time.Duration) ([]TimedSample, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var samples []TimedSample
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(record) != 3 && len(record) != 4 {
			return nil, fmt.Errorf("row %d [%s] does not have 3 or 4 elements", line, strings.Join(record, ","))
		}

		var axes [3]float64
		for i := range axes {
			axes[i], err = strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse axis %d: %w", line, i, err)
			}
		}

		offset := time.Duration(len(samples)) * interval
		if len(record) == 4 {
			offsetMs, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse offset: %w", line, err)
			}
			offset = time.Duration(offsetMs) * time.Millisecond
		}

		samples = append(samples, TimedSample{
			Sample: Sample{X: axes[0], Y: axes[1], Z: axes[2]},
			Offset: offset,
		})
	}

	return samples, nil
}
