package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// maxBodySize bounds request payloads. Note content travels in the body, so
// the cap sits far above any note a person writes by hand.
const maxBodySize = 16 << 20

var (
	errArgsNotObject = errors.New("arguments must be a JSON object")
	errArgsTooLarge  = fmt.Errorf("arguments too large: limit is %d bytes", maxBodySize)
	errArgsMalformed = errors.New("arguments are not valid JSON")
)

// readBody reads at most maxBodySize bytes. A longer body is rejected rather
// than cut short.
func readBody(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBodySize {
		return nil, errArgsTooLarge
	}
	return data, nil
}

func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}

// decodeArgs reads a JSON object of command arguments. An empty body is no arguments.
func decodeArgs(r io.Reader) (map[string]interface{}, error) {
	data, err := readBody(r)
	if err != nil {
		return nil, err
	}
	if isBlank(data) {
		return map[string]interface{}{}, nil
	}

	var raw interface{}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, errArgsMalformed
	}
	args, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errArgsNotObject
	}
	return normalizeKeys(args), nil
}

// decodeExecuteRequest applies the decodeArgs body rules to a service
// execution request.
func decodeExecuteRequest(r io.Reader) (types.ExecuteRequest, error) {
	var req types.ExecuteRequest
	data, err := readBody(r)
	if err != nil {
		return req, err
	}
	if isBlank(data) {
		return req, nil
	}
	if err := sonic.Unmarshal(data, &req); err != nil {
		return types.ExecuteRequest{}, errArgsMalformed
	}
	if req.Params != nil {
		req.Params = normalizeKeys(req.Params)
	}
	return req, nil
}

// normalizeKeys converts camelCase keys (folderPath) to snake_case (folder_path).
// When both spellings are sent the snake_case value wins.
func normalizeKeys(args map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		snake := toSnake(k)
		if _, exists := out[snake]; exists && snake != k {
			continue
		}
		out[snake] = v
	}
	return out
}

func toSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
