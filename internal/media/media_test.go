package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	k := ObjectKey("cordless-drill-18v", "Front View.JPG")
	assert.True(t, strings.HasPrefix(k, "products/cordless-drill-18v/"))
	assert.True(t, strings.HasSuffix(k, ".jpg"))
	assert.NotEqual(t, k, ObjectKey("cordless-drill-18v", "Front View.JPG"))
}

func TestNew_URLs(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
	_, err = New(Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	s, err := New(Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/toolstore", s.publicURL)

	s, err = New(Config{Endpoint: "minio:9000", AccessKey: "k", SecretKey: "s", Bucket: "img", PublicURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/img", s.publicURL)
}
