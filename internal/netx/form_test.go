package netx

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func readForm(t *testing.T, body io.Reader, contentType string) *multipart.Form {
	t.Helper()
	mt, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mt)

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	return form
}

func TestEncodeMultipart_FieldsOnly(t *testing.T) {
	body, ct, err := EncodeMultipart([]Field{
		{Name: "email", Value: "ann@example.com"},
		{Name: "interests", Value: "go,chess"},
	}, nil)
	require.NoError(t, err)

	form := readForm(t, body, ct)
	require.Equal(t, []string{"ann@example.com"}, form.Value["email"])
	require.Equal(t, []string{"go,chess"}, form.Value["interests"])
	require.Empty(t, form.File)
}

func TestEncodeMultipart_WithFile(t *testing.T) {
	body, ct, err := EncodeMultipart(
		[]Field{{Name: "name", Value: "Ann"}},
		&FormFile{Field: "profilePicture", FileName: "me.png", Content: strings.NewReader("PNGDATA")},
	)
	require.NoError(t, err)

	form := readForm(t, body, ct)
	require.Len(t, form.File["profilePicture"], 1)
	fh := form.File["profilePicture"][0]
	require.Equal(t, "me.png", fh.Filename)

	f, err := fh.Open()
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "PNGDATA", string(data))
}

func TestEncodeMultipart_NilContentSkipsFile(t *testing.T) {
	body, ct, err := EncodeMultipart(nil, &FormFile{Field: "profilePicture", FileName: "x"})
	require.NoError(t, err)
	require.Empty(t, readForm(t, body, ct).File)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestEncodeMultipart_ReadError(t *testing.T) {
	_, _, err := EncodeMultipart(nil, &FormFile{Field: "f", FileName: "x", Content: failingReader{}})
	require.ErrorContains(t, err, "disk gone")
}
