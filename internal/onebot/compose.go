package onebot

import "fmt"

// Compose normalizes reply content into a segment sequence. Accepted parts are
// strings (become text segments), single segments, Segments, []Segment and
// []any mixing those; anything else is rendered with fmt as text.
// Order is preserved and nil parts are skipped.
func Compose(parts ...any) Segments {
	out := make(Segments, 0, len(parts))
	for _, p := range parts {
		out = appendPart(out, p)
	}
	return out
}

func appendPart(out Segments, p any) Segments {
	switch v := p.(type) {
	case nil:
		return out
	case string:
		return append(out, Text{Text: v})
	case Segment:
		return append(out, v)
	case Segments:
		return append(out, v...)
	case []Segment:
		return append(out, v...)
	case []string:
		for _, s := range v {
			out = append(out, Text{Text: s})
		}
		return out
	case []any:
		for _, item := range v {
			out = appendPart(out, item)
		}
		return out
	default:
		return append(out, Text{Text: fmt.Sprint(v)})
	}
}
