package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"gopkg.in/yaml.v3"
)

const (
	loadAttempts = 3
	loadDelay    = 50 * time.Millisecond
)

// Parse decodes a script. An empty document is an empty script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	for i, s := range steps {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return steps, nil
}

// Load reads the script at path. Decoding failures are retried a few
// times since a watched file may be caught mid-write.
func Load(ctx context.Context, path string) ([]Step, error) {
	var steps []Step
	err := retry.Do(
		func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return retry.Unrecoverable(err)
				}
				return err
			}

			steps, err = Parse(bytes.NewReader(data))
			if errors.Is(err, ErrUnknownOp) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(loadAttempts),
		retry.Delay(loadDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	return steps, nil
}
