package providers

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-station-report/internal/common"
	"github.com/i474232898/weather-station-report/internal/weather"
)

const (
	fieldDelimiter = ";"

	dateIdx        = 0
	timeIdx        = 1
	temperatureIdx = 2
	flagIdx        = 3
	minFields      = temperatureIdx + 1
)

// Every specific parse error wraps ErrInvalidRecord.
var (
	ErrInvalidRecord      = errors.New("invalid station record")
	ErrMissingField       = errors.WithMessage(ErrInvalidRecord, "missing field")
	ErrInvalidDate        = errors.WithMessage(ErrInvalidRecord, "invalid date")
	ErrInvalidTemperature = errors.WithMessage(ErrInvalidRecord, "invalid temperature")
)

// commentPrefixes mark lines that carry no reading.
var commentPrefixes = []string{"#", "//"}

// ParseLine parses one "date;time;temperature;flag" record. The flag may be
// absent; only "G" marks an approved reading.
func ParseLine(line string) (weather.Reading, error) {
	fields := strings.Split(line, fieldDelimiter)
	if len(fields) < minFields {
		return weather.Reading{}, errors.Wrapf(ErrMissingField, "want at least %d fields, got %d", minFields, len(fields))
	}

	rawDate := strings.TrimSpace(fields[dateIdx])
	date, err := weather.ParseDate(rawDate)
	if err != nil {
		return weather.Reading{}, errors.Wrapf(ErrInvalidDate, "date %q", rawDate)
	}

	rawTemp := strings.TrimSpace(fields[temperatureIdx])
	temp, err := strconv.ParseFloat(rawTemp, 64)
	if err != nil {
		return weather.Reading{}, errors.Wrapf(ErrInvalidTemperature, "temperature %q", rawTemp)
	}

	var approved bool
	if len(fields) > flagIdx {
		approved = strings.TrimSpace(fields[flagIdx]) == weather.ApprovedFlag
	}

	return weather.Reading{
		Date:        date,
		Time:        strings.TrimSpace(fields[timeIdx]),
		Temperature: temp,
		Approved:    approved,
	}, nil
}

// ParseLines reads records line by line. Blank and comment lines are ignored.
// A malformed line fails the whole batch unless skipMalformed is set, in
// which case it is logged and counted in Batch.Skipped.
func ParseLines(r io.Reader, skipMalformed bool) (weather.Batch, error) {
	var batch weather.Batch

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || common.HasAnyPrefix(line, commentPrefixes...) {
			continue
		}

		reading, err := ParseLine(line)
		if err != nil {
			if skipMalformed {
				log.Warnf("skipping line %d: %v", lineNo, err)
				batch.Skipped++
				continue
			}
			return weather.Batch{}, errors.Wrapf(err, "line %d", lineNo)
		}
		batch.Readings = append(batch.Readings, reading)
	}

	if err := scanner.Err(); err != nil {
		return weather.Batch{}, errors.Wrap(err, "read station records")
	}
	return batch, nil
}
