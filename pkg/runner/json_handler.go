package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/anurags10/medibook/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
//
// Each reply is written as one JSON object. Each input line may be a JSON
// string, an object with a "text" field, or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

type replyLine struct {
	Type string `json:"type"`
	domain.Reply
}

type systemLine struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, reply domain.Reply) error {
	return h.Encoder.Encode(replyLine{Type: "reply", Reply: reply})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(systemLine{Type: "system", Message: msg})
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		clean, serr := SanitizeInput(decodeLine(line))
		if serr != nil {
			if err := h.SystemOutput(ctx, serr.Error()); err != nil {
				return "", err
			}
			continue
		}
		return clean, nil
	}
}

func decodeLine(line string) string {
	var s string
	if err := json.Unmarshal([]byte(line), &s); err == nil {
		return s
	}
	var obj struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal([]byte(line), &obj); err == nil && obj.Text != nil {
		return *obj.Text
	}
	return line
}
