package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
)

const (
	// MethodOverrideField is the form field the backend reads to treat a POST as another verb
	MethodOverrideField = "_method"

	imageField = "image"
)

// encodeForm builds the multipart body for create and update. override is
// the value for MethodOverrideField, or "" to omit it.
func encodeForm(fields catalog.Fields, image *catalog.Image, override string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	values := [][2]string{}
	if override != "" {
		values = append(values, [2]string{MethodOverrideField, override})
	}
	values = append(values,
		[2]string{"name", fields.Name},
		[2]string{"description", fields.Description},
		[2]string{"price", strconv.FormatInt(fields.Price, 10)},
	)
	if fields.Category != "" {
		values = append(values, [2]string{"category", fields.Category})
	}
	if fields.Caffeine != "" {
		values = append(values, [2]string{"caffeine", fields.Caffeine})
	}
	for _, ingredient := range fields.Ingredients {
		values = append(values, [2]string{"ingredients[]", ingredient})
	}

	for _, kv := range values {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", kv[0], err)
		}
	}

	if image != nil && image.Data != nil {
		if err := writeImage(w, image); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeImage(w *multipart.Writer, image *catalog.Image) error {
	filename := image.Filename
	if filename == "" {
		filename = "upload"
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, imageField, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, image.Data); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	return nil
}
