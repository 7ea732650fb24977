package status

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lesismal/nbserve/http1"
)

func TestFromError(t *testing.T) {
	cases := map[error]int{
		http1.ErrMalformed:            400,
		http1.ErrTooLongURI:           414,
		http1.ErrBufferOverflow:       413,
		http1.ErrVersionNotSupported:  505,
		http1.ErrPayloadTooLarge:      413,
		http1.ErrMissingContentLength: 411,
		http1.ErrMalformedHeaderField: 400,
		http1.ErrBodyNotAllowed:       400,
		http1.ErrMandatoryBody:        400,
		io.ErrUnexpectedEOF:           500,
		errors.New("other"):           500,
	}
	for err, code := range cases {
		require.Equal(t, code, FromError(err), err.Error())
		require.Equal(t, code, FromError(fmt.Errorf("%w: with context", err)), err.Error())
	}
}

func TestText(t *testing.T) {
	require.Equal(t, "Request URI Too Long", Text(414))
	require.Equal(t, "Length Required", Text(411))
	require.Equal(t, "Unknown Status", Text(599))
}
