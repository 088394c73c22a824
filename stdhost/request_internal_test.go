package stdhost

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bhost"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTableDo(t *testing.T) {
	tbl := table{http.Header{}}
	tbl.Add("x-b", "1")
	tbl.Add("X-A", "2")
	tbl.Add("x-b", "3")

	var got []string
	tbl.Do(func(name, value string) bool {
		got = append(got, name+"="+value)
		return true
	})
	require.Equal(t, []string{"X-A=2", "X-B=1", "X-B=3"}, got)

	v, ok := tbl.Get("x-a")
	require.True(t, ok)
	require.Equal(t, "2", v)

	tbl.Unset("X-B")
	_, ok = tbl.Get("x-b")
	require.False(t, ok)
}

func TestHandlerFor(t *testing.T) {
	s := New(zap.NewNop(),
		WithHandlerName("/", "root"),
		WithHandlerName("/api", "api"),
		WithHandlerName("/api/v2", "api-v2"))

	require.Equal(t, "root", s.handlerFor("/"))
	require.Equal(t, "api", s.handlerFor("/api/users"))
	require.Equal(t, "api-v2", s.handlerFor("/api/v2/users"))
	require.Empty(t, New(zap.NewNop()).handlerFor("/api"))
}

func TestAcceptsGzip(t *testing.T) {
	for ae, exp := range map[string]bool{
		"":                   false,
		"gzip":               true,
		"GZIP":               true,
		"deflate, gzip":      true,
		"gzip;q=0":           false,
		"gzip; q=0":          false,
		"br;q=1.0, gzip;q=1": true,
		"identity":           false,
	} {
		r := &request{in: table{http.Header{"Accept-Encoding": {ae}}}}
		require.Equal(t, exp, acceptsGzip(r), ae)
	}
}

func TestGetClientBlock(t *testing.T) {
	errBroken := errors.New("broken pipe")

	t.Run("data with error", func(t *testing.T) {
		hr := httptest.NewRequest(http.MethodPost, "/", &errReader{data: "ab", err: errBroken})
		r := &request{hr: hr}
		require.True(t, r.ShouldClientBlock())

		buf := make([]byte, 8)
		n, err := r.GetClientBlock(buf)
		require.NoError(t, err)
		require.Equal(t, "ab", string(buf[:n]))

		_, err = r.GetClientBlock(buf)
		require.ErrorIs(t, err, errBroken)
	})

	t.Run("eof", func(t *testing.T) {
		hr := httptest.NewRequest(http.MethodPost, "/", &errReader{data: "abc", err: io.EOF})
		r := &request{hr: hr}

		buf := make([]byte, 2)
		n, err := r.GetClientBlock(buf)
		require.NoError(t, err)
		require.Equal(t, 2, n)

		n, err = r.GetClientBlock(buf)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		n, err = r.GetClientBlock(buf)
		require.NoError(t, err)
		require.Equal(t, 0, n)
	})

	t.Run("policy", func(t *testing.T) {
		hr := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		r := &request{hr: hr}
		require.False(t, r.ShouldClientBlock())
		require.NoError(t, r.SetupClientBlock(bhost.ReadPolicyNoBody))

		hr = httptest.NewRequest(http.MethodPost, "/", io.LimitReader(nil, 0))
		hr.ContentLength = 10
		hr.TransferEncoding = []string{"chunked"}
		r = &request{hr: hr}
		require.Equal(t, bhost.CodeRequestEntityTooLarge, bhost.CodeOf(r.SetupClientBlock(bhost.ReadPolicyNoBody)))
		require.Equal(t, bhost.CodeLengthRequired, bhost.CodeOf(r.SetupClientBlock(bhost.ReadPolicyChunkedError)))
		require.NoError(t, r.SetupClientBlock(bhost.ReadPolicyDechunk))
	})
}

type errReader struct {
	data string
	err  error
}

func (r *errReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, r.err
	}

	n := copy(p, r.data)
	r.data = r.data[n:]
	if r.data == "" {
		return n, r.err
	}

	return n, nil
}
