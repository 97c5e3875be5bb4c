package onebot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Segment kinds as they appear in the OneBot11 array message format.
const (
	KindText   = "text"
	KindImage  = "image"
	KindAt     = "at"
	KindReply  = "reply"
	KindFace   = "face"
	KindNode   = "node"
	KindRecord = "record"
)

// Segment is one typed part of a message. The set of implementations is closed;
// kinds this package does not model decode to Unknown.
type Segment interface {
	Kind() string
	data() any
}

type Text struct {
	Text string `json:"text"`
}

// Image carries either a file reference (url, path or base64:// payload) for
// outbound messages, or the resolved url of an inbound image.
type Image struct {
	File    string `json:"file,omitempty"`
	URL     string `json:"url,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// At mentions a user. QQ is a decimal id or "all".
type At struct {
	QQ string `json:"qq"`
}

type Reply struct {
	ID string `json:"id"`
}

type Face struct {
	ID string `json:"id"`
}

type Record struct {
	File string `json:"file"`
}

// Node is a forward-message node: either a reference to an existing message
// (ID) or custom content attributed to UserID/Nickname.
type Node struct {
	ID       string   `json:"id,omitempty"`
	UserID   string   `json:"user_id,omitempty"`
	Nickname string   `json:"nickname,omitempty"`
	Content  Segments `json:"content,omitempty"`
}

// Unknown preserves segments of kinds not modelled above.
type Unknown struct {
	Type string
	Data json.RawMessage
}

func (Text) Kind() string      { return KindText }
func (Image) Kind() string     { return KindImage }
func (At) Kind() string        { return KindAt }
func (Reply) Kind() string     { return KindReply }
func (Face) Kind() string      { return KindFace }
func (Record) Kind() string    { return KindRecord }
func (Node) Kind() string      { return KindNode }
func (u Unknown) Kind() string { return u.Type }

func (s Text) data() any   { return s }
func (s Image) data() any  { return s }
func (s At) data() any     { return s }
func (s Reply) data() any  { return s }
func (s Face) data() any   { return s }
func (s Record) data() any { return s }
func (s Node) data() any   { return s }
func (s Unknown) data() any {
	if len(s.Data) == 0 {
		return struct{}{}
	}
	return s.Data
}

// Constructors mirroring the segment builders plugins use most.

func TextSegment(text string) Text       { return Text{Text: text} }
func ImageSegment(file string) Image     { return Image{File: file} }
func AtSegment(userID int64) At          { return At{QQ: strconv.FormatInt(userID, 10)} }
func AtAll() At                          { return At{QQ: "all"} }
func ReplySegment(messageID int64) Reply { return Reply{ID: strconv.FormatInt(messageID, 10)} }
func FaceSegment(id int) Face            { return Face{ID: strconv.Itoa(id)} }
func RecordSegment(file string) Record   { return Record{File: file} }

// NodeSegment builds a custom forward node attributed to userID.
func NodeSegment(userID int64, nickname string, content ...any) Node {
	return Node{
		UserID:   strconv.FormatInt(userID, 10),
		Nickname: nickname,
		Content:  Compose(content...),
	}
}

// Segments is an ordered message body.
type Segments []Segment

type wireSegment struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s Segments) MarshalJSON() ([]byte, error) {
	out := make([]map[string]any, 0, len(s))
	for _, seg := range s {
		out = append(out, map[string]any{"type": seg.Kind(), "data": seg.data()})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the array message format. A body in any other shape
// (string CQ-code form, object, null) decodes to an empty sequence.
func (s *Segments) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		*s = nil
		return nil
	}
	var wire []wireSegment
	if err := json.Unmarshal(b, &wire); err != nil {
		return fmt.Errorf("decode segments: %w", err)
	}
	out := make(Segments, 0, len(wire))
	for _, w := range wire {
		out = append(out, decodeSegment(w))
	}
	*s = out
	return nil
}

func decodeSegment(w wireSegment) Segment {
	var d struct {
		Text     string   `json:"text"`
		File     flexID   `json:"file"`
		URL      string   `json:"url"`
		Summary  string   `json:"summary"`
		QQ       flexID   `json:"qq"`
		ID       flexID   `json:"id"`
		UserID   flexID   `json:"user_id"`
		Nickname string   `json:"nickname"`
		Content  Segments `json:"content"`
	}
	if len(w.Data) > 0 {
		if err := json.Unmarshal(w.Data, &d); err != nil {
			return Unknown{Type: w.Type, Data: w.Data}
		}
	}
	switch w.Type {
	case KindText:
		return Text{Text: d.Text}
	case KindImage:
		return Image{File: string(d.File), URL: d.URL, Summary: d.Summary}
	case KindAt:
		return At{QQ: string(d.QQ)}
	case KindReply:
		return Reply{ID: string(d.ID)}
	case KindFace:
		return Face{ID: string(d.ID)}
	case KindRecord:
		return Record{File: string(d.File)}
	case KindNode:
		return Node{ID: string(d.ID), UserID: string(d.UserID), Nickname: d.Nickname, Content: d.Content}
	default:
		return Unknown{Type: w.Type, Data: w.Data}
	}
}

// flexID accepts ids encoded either as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}
