package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// AcceptEncoding is what browser-impersonating requests advertise.
const AcceptEncoding = "gzip, deflate, br, zstd"

func readBody(resp *http.Response) ([]byte, error) {
	reader, closeFn, err := decodingReader(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func decodingReader(encoding string, body io.Reader) (io.Reader, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, noop, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, noop, fmt.Errorf("gzip reader: %w", err)
		}
		return zr, func() { _ = zr.Close() }, nil
	case "deflate":
		fr := flate.NewReader(body)
		return fr, func() { _ = fr.Close() }, nil
	case "br":
		return brotli.NewReader(body), noop, nil
	case "zstd":
		zr, err := zstd.NewReader(body)
		if err != nil {
			return nil, noop, fmt.Errorf("zstd reader: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
