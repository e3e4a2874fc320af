package cava

import (
	"bytes"
	"strconv"

	"github.com/noriah/cavadash/input"
	"github.com/pkg/errors"
)

// Delimiter separates bar values on the wire. Every row ends with one.
const Delimiter = ';'

// ParseRow decodes one ascii row such as "3;10;0;". The token after the
// final delimiter is dropped. A row must carry exactly bars non-negative
// integers.
func ParseRow(line []byte, bars int) (input.Snapshot, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, errors.New("empty row")
	}

	tokens := bytes.Split(line, []byte{Delimiter})
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != bars {
		return nil, errors.Errorf("row has %d values, want %d", len(tokens), bars)
	}

	row := make(input.Snapshot, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(string(tok))
		if err != nil {
			return nil, errors.Wrapf(err, "bad value at bar %d", i)
		}

		if v < 0 {
			return nil, errors.Errorf("negative value %d at bar %d", v, i)
		}

		row[i] = v
	}

	return row, nil
}
