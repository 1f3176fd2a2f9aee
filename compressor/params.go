package compressor

import (
	"strconv"
	"strings"
)

// KV is one key/value pair from a decoded parameter string.
type KV struct {
	Key   string
	Value string
}

// EncodeParams renders name and p as the wire form from spec §4.2 and
// §6: "name,k1,v1,k2,v2,...", ASCII, comma-separated, no escaping. Field
// order is Params' declared order (threshold, then ef_alpha), matching
// S5 in spec §8.
func EncodeParams(name string, p Params) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(",threshold,")
	b.WriteString(formatFloat(p.Threshold))
	b.WriteString(",ef_alpha,")
	b.WriteString(formatFloat(p.EFAlpha))
	return b.String()
}

// DecodeParams splits the wire form into a compressor name and its
// key/value list. It fails (KindConfiguration) if the tail after the
// name has an odd number of tokens, per spec §4.2 and §6.
func DecodeParams(s string) (name string, kv []KV, err error) {
	tokens := strings.Split(s, ",")
	if len(tokens) == 0 || tokens[0] == "" {
		return "", nil, newError(KindConfiguration, nil, "empty parameter string")
	}
	name = tokens[0]
	tail := tokens[1:]
	if len(tail)%2 != 0 {
		return "", nil, newError(KindConfiguration, nil, "malformed parameter string %q: odd number of trailing tokens", s)
	}
	kv = make([]KV, 0, len(tail)/2)
	for i := 0; i < len(tail); i += 2 {
		kv = append(kv, KV{Key: tail[i], Value: tail[i+1]})
	}
	return name, kv, nil
}

// ApplyParams overlays kv on top of defaults, parsing "threshold" and
// "ef_alpha" as float32. Unknown keys are ignored (forward-compatible
// with future parameters a decoder doesn't understand yet). It panics
// (KindConfiguration) on a malformed numeric value.
func ApplyParams(defaults Params, kv []KV) Params {
	p := defaults
	for _, e := range kv {
		switch e.Key {
		case "threshold":
			p.Threshold = mustParseFloat32(e.Value, "threshold")
		case "ef_alpha":
			p.EFAlpha = mustParseFloat32(e.Value, "ef_alpha")
		}
	}
	return p
}

func mustParseFloat32(s, field string) float32 {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		PanicWrap(KindConfiguration, err, "invalid value %q for parameter %q", s, field)
	}
	return float32(v)
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
