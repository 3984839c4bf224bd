package storage

import "github.com/bytedance/sonic"

// jsonAPI keeps map keys sorted so rewritten progress files diff cleanly.
var jsonAPI = sonic.Config{
	EscapeHTML:       false,
	SortMapKeys:      true,
	CompactMarshaler: true,
}.Froze()
