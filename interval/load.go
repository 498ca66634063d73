package interval

import (
	"context"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Load reads a BED or BED.gz file from path (local or S3-style, via
// base/file) and returns its interval union.
func Load(ctx context.Context, path string) (set *Set, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	reader := in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, errors.Wrapf(err, "interval.Load %s", path)
		}
		defer gz.Close() // nolint: errcheck
		return NewSetFromBED(gz)
	}
	return NewSetFromBED(reader)
}
