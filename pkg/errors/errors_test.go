package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrorTypeConfig, "storage directory is required"),
			want: "config error: storage directory is required",
		},
		{
			name: "with code",
			err:  New(ErrorTypeInventory, "unexpected status").WithCode(502),
			want: "inventory error (code 502): unexpected status",
		},
		{
			name: "with cause",
			err:  Wrap(ErrorTypeScrape, context.DeadlineExceeded, "render listing"),
			want: "scrape error: render listing: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsTypeThroughWrapping(t *testing.T) {
	base := Wrap(ErrorTypeInventory, stderrors.New("dial tcp: refused"), "query inventory")
	wrapped := fmt.Errorf("pipeline: %w", base)

	assert.True(t, IsType(wrapped, ErrorTypeInventory))
	assert.False(t, IsType(wrapped, ErrorTypeScrape))
	assert.Equal(t, ErrorTypeInventory, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("plain")))
	assert.ErrorIs(t, wrapped, base.Err)
}

func TestWithCodeDoesNotMutate(t *testing.T) {
	e := New(ErrorTypeDownload, "bad status")
	coded := e.WithCode(404)

	assert.Equal(t, 0, e.Code)
	assert.Equal(t, 404, coded.Code)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrorTypeScrape))
	assert.True(t, IsFatal(ErrorTypeInventory))
	assert.True(t, IsFatal(ErrorTypeConfig))
	assert.False(t, IsFatal(ErrorTypeDownload))
	assert.False(t, IsFatal(ErrorTypeNotify))
}
