// Package netx holds HTTP body helpers shared by the REST client.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Field is one text field of a multipart form.
type Field struct {
	Name  string
	Value string
}

// FormFile is a file part of a multipart form.
type FormFile struct {
	Field    string
	FileName string
	Content  io.Reader
}

// EncodeMultipart writes fields, then file when it is non-nil, as
// multipart/form-data. It returns the body and its Content-Type header.
func EncodeMultipart(fields []Field, file *FormFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	if file != nil && file.Content != nil {
		part, err := w.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", file.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
