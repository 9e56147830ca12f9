package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/k3a/html2text"
)

const lineLength = 76

// BuildMessage renders a multipart/alternative message with base64 encoded parts.
func BuildMessage(from, fromName string, msg *Message, now time.Time) ([]byte, error) {
	text := msg.Text
	if text == "" {
		text = html2text.HTML2Text(msg.HTML)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make([]string, 0, 8)
	sender := mail.Address{Name: fromName, Address: from}
	header = append(header,
		"From: "+sender.String(),
		"To: "+strings.Join(msg.To, ", "),
		"Subject: "+mime.BEncoding.Encode("UTF-8", msg.Subject),
		"Date: "+now.Format(time.RFC1123Z),
		fmt.Sprintf("Message-ID: <%s@%s>", uuid.NewString(), domainOf(from)),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", mw.Boundary()),
	)

	var out bytes.Buffer
	out.WriteString(strings.Join(header, "\r\n"))
	out.WriteString("\r\n\r\n")

	if err := writePart(mw, "text/plain; charset=UTF-8", text); err != nil {
		return nil, err
	}
	if msg.HTML != "" {
		if err := writePart(mw, "text/html; charset=UTF-8", msg.HTML); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "base64")

	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	for len(encoded) > lineLength {
		if _, err := w.Write([]byte(encoded[:lineLength] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[lineLength:]
	}
	_, err = w.Write([]byte(encoded + "\r\n"))
	return err
}

func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
