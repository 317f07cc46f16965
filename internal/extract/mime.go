package extract

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/charmap"
)

// UnknownDate is used when a message has no parseable Date header.
const UnknownDate = "Unknown"

// envelope is the metadata and HTML body of one parsed message.
type envelope struct {
	To   string
	Date string
	HTML string
}

var errNoHTML = errors.New("no text/html part")

// parseMessage reads a raw RFC 5322 message and returns its recipient,
// its date as YYYY-MM-DD and the first text/html part.
func parseMessage(raw []byte) (envelope, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if mr == nil {
		return envelope{}, err
	}
	defer mr.Close()

	env := envelope{
		To:   recipient(mr.Header),
		Date: UnknownDate,
	}
	if t, err := mr.Header.Date(); err == nil && !t.IsZero() {
		env.Date = t.In(time.Local).Format("2006-01-02")
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && part == nil {
			break
		}

		inline, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mimeType, _, _ := inline.ContentType()
		if !strings.EqualFold(mimeType, "text/html") {
			continue
		}

		body, err := io.ReadAll(part.Body)
		if err != nil {
			return env, err
		}
		env.HTML = decodeText(body)
		return env, nil
	}

	return env, errNoHTML
}

// decodeText returns body as UTF-8, reinterpreting it as ISO-8859-1 when
// it is not valid UTF-8.
func decodeText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return string(bytes.ToValidUTF8(body, []byte("�")))
	}
	return string(out)
}

func recipient(h mail.Header) string {
	addrs, err := h.AddressList("To")
	if err != nil || len(addrs) == 0 {
		return strings.TrimSpace(h.Get("To"))
	}

	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Address)
	}
	return strings.Join(out, ", ")
}
